package query

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ysmood/gson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Handle lazily binds a selector to at most one element of a page.
//
// The first accessor call (or Resolve) queries the page and caches the
// outcome, including "no match". The cache is write-once: later calls
// never re-query, so a handle kept across DOM mutations serves a stale
// or absent reference until Invalidate is called. Concurrent callers
// that arrive before the first query settles share that one query.
type Handle struct {
	page     PageContext
	selector string
	acc      accessor
	log      *zap.Logger

	mu       sync.Mutex
	resolved bool
	ref      ElementRef
	gen      uint64

	flight singleflight.Group
}

func newHandle(page PageContext, selector string, log *zap.Logger) *Handle {
	return &Handle{
		page:     page,
		selector: selector,
		acc:      accessor{page: page},
		log:      log,
	}
}

func (h *Handle) Selector() string {
	return h.selector
}

// Resolved reports whether the handle has left the Unresolved state.
func (h *Handle) Resolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolved
}

// Resolve returns the cached element reference, querying the page on
// first use. A nil ref with nil error means the selector matched
// nothing. Query errors are not cached.
//
// In-flight callers share the first caller's query and therefore its
// context: if that context is cancelled they all receive the error.
func (h *Handle) Resolve(ctx context.Context) (ElementRef, error) {
	h.mu.Lock()
	if h.resolved {
		ref := h.ref
		h.mu.Unlock()
		return ref, nil
	}
	gen := h.gen
	h.mu.Unlock()

	v, err, shared := h.flight.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		h.mu.Lock()
		if h.resolved && h.gen == gen {
			ref := h.ref
			h.mu.Unlock()
			return ref, nil
		}
		h.mu.Unlock()

		ref, err := h.page.QuerySingle(ctx, h.selector)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		if h.gen == gen {
			h.ref = ref
			h.resolved = true
		}
		h.mu.Unlock()

		h.log.Debug("selector resolved",
			zap.String("selector", h.selector),
			zap.Bool("found", ref != nil))
		return ref, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", h.selector, err)
	}
	if shared {
		h.log.Debug("shared in-flight resolution", zap.String("selector", h.selector))
	}

	ref, _ := v.(ElementRef)
	return ref, nil
}

// Invalidate drops the cached resolution so the next call re-queries.
// Queries already in flight still answer their callers but no longer
// populate the cache.
func (h *Handle) Invalidate() {
	h.mu.Lock()
	h.resolved = false
	h.ref = nil
	h.gen++
	h.mu.Unlock()
}

// Element returns the resolved element, or nil when nothing matched.
func (h *Handle) Element(ctx context.Context) (*Element, error) {
	ref, err := h.Resolve(ctx)
	if err != nil || ref == nil {
		return nil, err
	}
	return NewElement(h.page, ref), nil
}

// IsVisible returns NotApplicable when the selector matched nothing.
func (h *Handle) IsVisible(ctx context.Context) (Visibility, error) {
	ref, err := h.Resolve(ctx)
	if err != nil {
		return NotApplicable, err
	}
	if ref == nil {
		return NotApplicable, nil
	}

	ok, err := h.acc.visible(ctx, ref)
	if err != nil {
		return NotApplicable, err
	}
	if ok {
		return Visible, nil
	}
	return Hidden, nil
}

func (h *Handle) Attr(ctx context.Context, name string) (Value, error) {
	return h.value(ctx, func(ref ElementRef) (gson.JSON, error) {
		return h.acc.attr(ctx, ref, name)
	})
}

// Text returns the element's rendered innerText.
func (h *Handle) Text(ctx context.Context) (Value, error) {
	return h.value(ctx, func(ref ElementRef) (gson.JSON, error) {
		return h.acc.text(ctx, ref)
	})
}

// HTML returns the element's innerHTML.
func (h *Handle) HTML(ctx context.Context) (Value, error) {
	return h.value(ctx, func(ref ElementRef) (gson.JSON, error) {
		return h.acc.html(ctx, ref)
	})
}

func (h *Handle) Prop(ctx context.Context, name string) (Value, error) {
	return h.value(ctx, func(ref ElementRef) (gson.JSON, error) {
		return h.acc.prop(ctx, ref, name)
	})
}

// value resolves, short-circuits on absence and evaluates fetch.
func (h *Handle) value(ctx context.Context, fetch func(ElementRef) (gson.JSON, error)) (Value, error) {
	ref, err := h.Resolve(ctx)
	if err != nil {
		return NotFound, err
	}
	if ref == nil {
		return NotFound, nil
	}

	raw, err := fetch(ref)
	if err != nil {
		return NotFound, err
	}
	return Found(raw), nil
}
