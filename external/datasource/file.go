package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	domainsource "github.com/riskibarqy/foot-stats-coach/internal/domain/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/usecase"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// FileSource reads a JSON document from local disk.
type FileSource struct {
	path string
	key  string
	name string
}

func NewFileSource(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: source path is required", usecase.ErrInvalidInput)
	}
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	return &FileSource{path: path, key: "file://" + key, name: filepath.Base(path)}, nil
}

func (s *FileSource) Name() string {
	return s.name
}

// Key is the absolute file location.
func (s *FileSource) Key() string {
	return s.key
}

func (s *FileSource) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var root any
	if err := jsonAPI.NewDecoder(f).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode %s: invalid json: %w", s.name, err)
	}
	return root, nil
}

// Static serves an already decoded document.
type Static struct {
	name string
	root any
}

func NewStatic(name string, root any) *Static {
	return &Static{name: name, root: root}
}

func (s *Static) Name() string {
	return s.name
}

// Key is unique per Static value; two statics never share cached documents.
func (s *Static) Key() string {
	return fmt.Sprintf("static://%s#%p", s.name, s)
}

func (s *Static) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.root, nil
}

// Open picks an HTTP source for http(s) locations and a file source otherwise.
func Open(location string, cfg HTTPConfig) (domainsource.Source, error) {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		cfg.URL = location
		source, err := NewHTTPSource(cfg)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	source, err := NewFileSource(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, err
	}
	return source, nil
}
