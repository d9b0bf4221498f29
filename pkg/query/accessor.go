package query

import (
	"context"
	"fmt"

	"github.com/ysmood/gson"
)

// Remote expressions. this is the element the expression is evaluated on.
const (
	jsGetAttribute = `(name) => this.getAttribute(name)`
	jsSetAttribute = `(name, value) => this.setAttribute(name, value)`
	jsInnerText    = `() => this.innerText`
	jsInnerHTML    = `() => this.innerHTML`
	jsProperty     = `(name) => this[name]`
)

// accessor is the one place where values cross the evaluation boundary.
type accessor struct {
	page PageContext
}

// eval runs js on ref; op names the accessor in error messages.
func (a accessor) eval(ctx context.Context, ref ElementRef, op, js string, args ...any) (gson.JSON, error) {
	if ref == nil {
		return gson.JSON{}, ErrNilRef
	}
	res, err := a.page.EvaluateOn(ctx, ref, js, args...)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("evaluate %s: %w", op, err)
	}
	return res, nil
}

func (a accessor) attr(ctx context.Context, ref ElementRef, name string) (gson.JSON, error) {
	return a.eval(ctx, ref, "getAttribute", jsGetAttribute, name)
}

func (a accessor) setAttr(ctx context.Context, ref ElementRef, name, value string) (gson.JSON, error) {
	return a.eval(ctx, ref, "setAttribute", jsSetAttribute, name, value)
}

func (a accessor) text(ctx context.Context, ref ElementRef) (gson.JSON, error) {
	return a.eval(ctx, ref, "innerText", jsInnerText)
}

func (a accessor) html(ctx context.Context, ref ElementRef) (gson.JSON, error) {
	return a.eval(ctx, ref, "innerHTML", jsInnerHTML)
}

func (a accessor) prop(ctx context.Context, ref ElementRef, name string) (gson.JSON, error) {
	return a.eval(ctx, ref, "property", jsProperty, name)
}

func (a accessor) visible(ctx context.Context, ref ElementRef) (bool, error) {
	if ref == nil {
		return false, ErrNilRef
	}
	box, err := ref.BoundingBox(ctx)
	if err != nil {
		return false, fmt.Errorf("bounding box: %w", err)
	}
	return box != nil, nil
}
