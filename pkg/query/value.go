package query

import "github.com/ysmood/gson"

// Value is the outcome of an accessor call. A Value is either NotFound
// (the selector matched nothing) or Found with the raw JSON that came
// back across the evaluation boundary. Raw may be null both for a
// genuine null and for values the boundary could not marshal.
type Value struct {
	raw   gson.JSON
	found bool
}

// NotFound is the sentinel returned when no element matched.
var NotFound = Value{}

// Found wraps a remote result.
func Found(raw gson.JSON) Value {
	return Value{raw: raw, found: true}
}

func (v Value) Found() bool {
	return v.found
}

// Null reports whether the element was found but the remote value is
// null or undefined.
func (v Value) Null() bool {
	return v.found && v.raw.Nil()
}

func (v Value) Raw() gson.JSON {
	return v.raw
}

// Str returns the value as a string. ok is false when the element was
// not found or the value is null.
func (v Value) Str() (s string, ok bool) {
	if !v.found || v.raw.Nil() {
		return "", false
	}
	return v.raw.Str(), true
}

// Val returns the decoded Go value, or nil for NotFound.
func (v Value) Val() any {
	if !v.found {
		return nil
	}
	return v.raw.Val()
}

func (v Value) String() string {
	if !v.found {
		return "<not found>"
	}
	if v.raw.Nil() {
		return "<null>"
	}
	return v.raw.Str()
}

// Visibility is the tri-state answer of Handle.IsVisible.
type Visibility int

const (
	// NotApplicable means the selector matched no element.
	NotApplicable Visibility = iota
	Hidden
	Visible
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "not applicable"
	}
}

// Box is an element's rendered bounding box in CSS pixels.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
