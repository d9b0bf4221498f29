package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/mock"
	"github.com/ysmood/gson"
)

type fakeRef struct {
	attrs map[string]string
	text  string
	html  string
	props map[string]any
	box   *Box
}

func (r *fakeRef) BoundingBox(ctx context.Context) (*Box, error) {
	return r.box, nil
}

func newRef(attrs map[string]string) *fakeRef {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &fakeRef{attrs: attrs, box: &Box{Width: 10, Height: 10}}
}

// fakePage is an in-memory document: selectors map to their matches.
type fakePage struct {
	mu      sync.Mutex
	nodes   map[string][]*fakeRef
	single  atomic.Int32
	all     atomic.Int32
	block   chan struct{}
	evalErr error
}

func newFakePage() *fakePage {
	return &fakePage{nodes: map[string][]*fakeRef{}}
}

func (p *fakePage) add(selector string, refs ...*fakeRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes[selector] = append(p.nodes[selector], refs...)
}

func (p *fakePage) remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.nodes, selector)
}

func (p *fakePage) QuerySingle(ctx context.Context, selector string) (ElementRef, error) {
	p.single.Add(1)
	p.mu.Lock()
	block := p.block
	p.mu.Unlock()
	if block != nil {
		<-block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if selector == "" {
		return nil, errors.New("invalid selector")
	}
	refs := p.nodes[selector]
	if len(refs) == 0 {
		return nil, nil
	}
	return refs[0], nil
}

func (p *fakePage) QueryAll(ctx context.Context, selector string) ([]ElementRef, error) {
	p.all.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ElementRef, 0, len(p.nodes[selector]))
	for _, r := range p.nodes[selector] {
		out = append(out, r)
	}
	return out, nil
}

func (p *fakePage) EvaluateOn(ctx context.Context, ref ElementRef, js string, args ...any) (gson.JSON, error) {
	if p.evalErr != nil {
		return gson.JSON{}, p.evalErr
	}
	r := ref.(*fakeRef)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch js {
	case jsGetAttribute:
		v, ok := r.attrs[args[0].(string)]
		if !ok {
			return gson.New(nil), nil
		}
		return gson.New(v), nil
	case jsSetAttribute:
		r.attrs[args[0].(string)] = args[1].(string)
		return gson.New(nil), nil
	case jsInnerText:
		return gson.New(r.text), nil
	case jsInnerHTML:
		return gson.New(r.html), nil
	case jsProperty:
		return gson.New(r.props[args[0].(string)]), nil
	}
	return gson.JSON{}, fmt.Errorf("unexpected js %q", js)
}

type mockPage struct {
	mock.Mock
}

func (m *mockPage) QuerySingle(ctx context.Context, selector string) (ElementRef, error) {
	args := m.Called(ctx, selector)
	ref, _ := args.Get(0).(ElementRef)
	return ref, args.Error(1)
}

func (m *mockPage) QueryAll(ctx context.Context, selector string) ([]ElementRef, error) {
	args := m.Called(ctx, selector)
	refs, _ := args.Get(0).([]ElementRef)
	return refs, args.Error(1)
}

func (m *mockPage) EvaluateOn(ctx context.Context, ref ElementRef, js string, params ...any) (gson.JSON, error) {
	args := m.Called(ctx, ref, js, params)
	raw, _ := args.Get(0).(gson.JSON)
	return raw, args.Error(1)
}
