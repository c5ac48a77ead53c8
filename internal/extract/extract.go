// Package extract provides stateless helpers for pulling product fields out
// of parsed HTML documents. Each helper walks an ordered selector fallback
// chain and returns the first hit, so heterogeneous page markup degrades to
// empty fields instead of per-site code paths or errors.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FirstText returns the trimmed text of the first selector in the chain that
// matches a node, or "" when none match.
func FirstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr returns the named attribute of the first selector in the chain
// that matches a node carrying that attribute, or "" when none match.
func FirstAttr(doc *goquery.Document, selectors []string, attr string) string {
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if val, ok := node.Attr(attr); ok {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
