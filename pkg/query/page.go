package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

// Page adds the query helpers on top of a PageContext.
type Page struct {
	ctx PageContext
	acc accessor
	log *zap.Logger
}

type Option func(*Page)

// WithLogger sets the logger used for resolution and fill diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(p *Page) {
		if log != nil {
			p.log = log
		}
	}
}

func NewPage(pc PageContext, opts ...Option) (*Page, error) {
	if pc == nil {
		return nil, ErrNilPage
	}
	p := &Page{
		ctx: pc,
		acc: accessor{page: pc},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Q prepares a lazily resolved handle for selector. No I/O happens here;
// an invalid selector surfaces as an error on first use.
func (p *Page) Q(selector string) *Handle {
	return newHandle(p.ctx, selector, p.log)
}

// Element wraps a reference obtained from this page's context.
func (p *Page) Element(ref ElementRef) *Element {
	return NewElement(p.ctx, ref)
}

// Exists runs an uncached single-match query.
func (p *Page) Exists(ctx context.Context, selector string) (bool, error) {
	ref, err := p.ctx.QuerySingle(ctx, selector)
	if err != nil {
		return false, fmt.Errorf("query %q: %w", selector, err)
	}
	return ref != nil, nil
}

// GetElementsAttribute reads attribute name from every match of selector,
// in match order. The first failing read aborts the whole batch.
func (p *Page) GetElementsAttribute(ctx context.Context, selector, name string) ([]gson.JSON, error) {
	refs, err := p.ctx.QueryAll(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("query all %q: %w", selector, err)
	}

	list := make([]gson.JSON, 0, len(refs))
	for i, ref := range refs {
		v, err := p.acc.attr(ctx, ref, name)
		if err != nil {
			return nil, fmt.Errorf("element %d of %q: %w", i, selector, err)
		}
		list = append(list, v)
	}
	return list, nil
}

// Field is one name/value pair for FillOrdered.
type Field struct {
	Name  string
	Value string
}

// Fill sets the value attribute of each descendant of selector whose name
// attribute matches a key of fields. Keys are applied in sorted order.
// A field with no matching element is skipped; the result is always true
// unless a query or evaluation fails.
func (p *Page) Fill(ctx context.Context, selector string, fields map[string]string) (bool, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]Field, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, Field{Name: name, Value: fields[name]})
	}
	return p.FillOrdered(ctx, selector, ordered)
}

// FillOrdered is Fill with caller-defined field order.
func (p *Page) FillOrdered(ctx context.Context, selector string, fields []Field) (bool, error) {
	for _, f := range fields {
		sel := fieldSelector(selector, f.Name)
		ref, err := p.ctx.QuerySingle(ctx, sel)
		if err != nil {
			return false, fmt.Errorf("query %q: %w", sel, err)
		}
		if ref == nil {
			p.log.Debug("fill: no such field", zap.String("selector", sel))
			continue
		}
		if _, err := p.acc.setAttr(ctx, ref, "value", f.Value); err != nil {
			return false, fmt.Errorf("fill %q: %w", f.Name, err)
		}
	}
	return true, nil
}

func fieldSelector(selector, name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	name = strings.ReplaceAll(name, `"`, `\"`)
	return selector + ` [name="` + name + `"]`
}
