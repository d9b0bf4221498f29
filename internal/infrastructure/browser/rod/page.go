package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"pagequery/pkg/query"
)

var ErrForeignRef = errors.New("element reference does not belong to this browser")

var (
	_ query.PageContext = (*pageContext)(nil)
	_ query.ElementRef  = (*elementRef)(nil)
)

// jsBoundingBox returns null for elements without a rendered area,
// including display:none and zero-sized boxes.
const jsBoundingBox = `() => {
	const r = this.getBoundingClientRect();
	if (r.width === 0 || r.height === 0) return null;
	return { x: r.x, y: r.y, width: r.width, height: r.height };
}`

type pageContext struct {
	adapter *BrowserAdapter
}

type elementRef struct {
	el *rod.Element
}

func (r *elementRef) BoundingBox(ctx context.Context) (*query.Box, error) {
	res, err := r.el.Context(ctx).Eval(jsBoundingBox)
	if err != nil {
		return nil, err
	}
	if res.Value.Nil() {
		return nil, nil
	}
	return &query.Box{
		X:      res.Value.Get("x").Num(),
		Y:      res.Value.Get("y").Num(),
		Width:  res.Value.Get("width").Num(),
		Height: res.Value.Get("height").Num(),
	}, nil
}

// QuerySingle не ждёт появления элемента: отсутствие совпадения это nil, а не ошибка.
func (p *pageContext) QuerySingle(ctx context.Context, selector string) (query.ElementRef, error) {
	if !p.adapter.IsReady() {
		return nil, ErrClosed
	}
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}

	tctx, cancel := p.adapter.withTimeout(ctx)
	defer cancel()

	has, el, err := p.adapter.page.Context(tctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query selector %q: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &elementRef{el: el.Context(context.Background())}, nil
}

func (p *pageContext) QueryAll(ctx context.Context, selector string) ([]query.ElementRef, error) {
	if !p.adapter.IsReady() {
		return nil, ErrClosed
	}
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}

	tctx, cancel := p.adapter.withTimeout(ctx)
	defer cancel()

	elements, err := p.adapter.page.Context(tctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query selector all %q: %w", selector, err)
	}

	refs := make([]query.ElementRef, 0, len(elements))
	for _, el := range elements {
		refs = append(refs, &elementRef{el: el.Context(context.Background())})
	}
	return refs, nil
}

func (p *pageContext) EvaluateOn(ctx context.Context, ref query.ElementRef, js string, args ...any) (gson.JSON, error) {
	if !p.adapter.IsReady() {
		return gson.JSON{}, ErrClosed
	}
	r, ok := ref.(*elementRef)
	if !ok || r == nil || r.el == nil {
		return gson.JSON{}, ErrForeignRef
	}

	tctx, cancel := p.adapter.withTimeout(ctx)
	defer cancel()

	res, err := r.el.Context(tctx).Eval(js, args...)
	if err != nil {
		return gson.JSON{}, err
	}
	return res.Value, nil
}
