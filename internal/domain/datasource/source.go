package datasource

import "context"

// Source yields one raw JSON document of unknown shape. Name is for display;
// Key identifies the location and must differ between distinct documents.
type Source interface {
	Name() string
	Key() string
	Fetch(ctx context.Context) (any, error)
}

// Document is a decoded JSON root tagged with where it came from.
type Document struct {
	Name string
	Root any
}
