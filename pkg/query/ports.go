package query

import (
	"context"
	"errors"

	"github.com/ysmood/gson"
)

var (
	ErrNilPage = errors.New("query: nil page context")
	ErrNilRef  = errors.New("query: nil element reference")
)

// PageContext is the capability surface of the automation engine that
// this package needs. Engine types are adapted to it, never extended.
type PageContext interface {
	// QuerySingle returns the first element matching selector, or a nil
	// ElementRef and nil error when nothing matches.
	QuerySingle(ctx context.Context, selector string) (ElementRef, error)
	// QueryAll returns every match in document order.
	QueryAll(ctx context.Context, selector string) ([]ElementRef, error)
	// EvaluateOn runs js in the remote document with ref bound as this and
	// returns the JSON-marshalled result.
	EvaluateOn(ctx context.Context, ref ElementRef, js string, args ...any) (gson.JSON, error)
}

// ElementRef is an opaque reference to a node owned by the PageContext.
type ElementRef interface {
	// BoundingBox returns nil when the element is not rendered.
	BoundingBox(ctx context.Context) (*Box, error)
}
