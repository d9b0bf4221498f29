package htmlclean

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// DropDataAttrs удаляет data-* и aria-* атрибуты.
	DropDataAttrs bool
	MaxOutputSize int
}

// DefaultConfig: дефолтная конфигурация
var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "link", "meta", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	DropDataAttrs: true,
}

// Clean strips noise from an innerHTML fragment: comments, non-content
// tags, inline handlers and presentation attributes.
func Clean(fragment string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !cleanNode(n, cfg) {
			continue
		}
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render: %w", err)
		}
	}

	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

// cleanNode чистит поддерево и возвращает false, если сам узел нужно выбросить.
func cleanNode(n *html.Node, cfg *Config) bool {
	switch n.Type {
	case html.CommentNode:
		return false
	case html.ElementNode:
		if isOneOf(n.Data, cfg.TagsToRemove...) {
			return false
		}
		n.Attr = filterAttributes(n.Attr, cfg)
	default:
		return true
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !cleanNode(c, cfg) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func filterAttributes(attrs []html.Attribute, cfg *Config) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg *Config) bool {
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	if strings.HasPrefix(key, "on") {
		return true
	}
	if cfg.DropDataAttrs && (strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-")) {
		return true
	}
	return false
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:maxSize] + "\n<!-- truncated -->"
	}
	return s
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
