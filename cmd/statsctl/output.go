package main

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// writeJSON encodes v as indented JSON with sorted map keys.
func writeJSON(w io.Writer, v any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
