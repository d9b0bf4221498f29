package query

import (
	"context"

	"github.com/ysmood/gson"
)

// Element exposes the accessors on an already resolved reference.
// There is no caching layer: every call is a fresh remote evaluation.
type Element struct {
	ref ElementRef
	acc accessor
}

// NewElement binds ref to the page that owns it.
func NewElement(page PageContext, ref ElementRef) *Element {
	return &Element{ref: ref, acc: accessor{page: page}}
}

func (e *Element) Ref() ElementRef {
	return e.ref
}

// IsVisible reports whether the element has a rendered, non-empty box.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	return e.acc.visible(ctx, e.ref)
}

// Attr reads attribute name. A missing attribute yields null.
func (e *Element) Attr(ctx context.Context, name string) (gson.JSON, error) {
	return e.acc.attr(ctx, e.ref, name)
}

// SetAttr sets attribute name and returns the marshalled result of the
// set operation (null for setAttribute), not the new value.
func (e *Element) SetAttr(ctx context.Context, name, value string) (gson.JSON, error) {
	return e.acc.setAttr(ctx, e.ref, name, value)
}

func (e *Element) Text(ctx context.Context) (gson.JSON, error) {
	return e.acc.text(ctx, e.ref)
}

func (e *Element) HTML(ctx context.Context) (gson.JSON, error) {
	return e.acc.html(ctx, e.ref)
}

// Prop reads a live DOM property such as value, checked or tagName.
func (e *Element) Prop(ctx context.Context, name string) (gson.JSON, error) {
	return e.acc.prop(ctx, e.ref, name)
}
