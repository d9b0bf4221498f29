// Package query provides convenience accessors over a browser page:
// attribute, text, HTML and property getters, existence checks and form
// filling.
//
// Page.Q returns a Handle that resolves its selector lazily and caches
// the first match. Accessors on a Handle return NotFound instead of an
// error when nothing matched; failures of the underlying engine are
// returned as errors unchanged.
//
//	p, _ := query.NewPage(browser.Page())
//	href, err := p.Q("a.next").Attr(ctx, "href")
//	if s, ok := href.Str(); ok {
//		...
//	}
package query
