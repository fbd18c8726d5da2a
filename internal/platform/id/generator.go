package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque IDs for normalization runs.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator produces "20240309T183000-1a2b3c4d" style IDs: a UTC
// timestamp so IDs sort by start time, then random bytes.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}
	return now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
