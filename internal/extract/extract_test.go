package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const productHTML = `
<html><body>
  <h1 class="product-name">Premium Dog Kibble</h1>
  <div class="detail-content">Grain-free dry food for adult dogs.</div>
  <span class="product-price"> $12.50 incl. tax </span>
  <img class="hero" src="https://cdn.example.com/kibble.jpg" alt="kibble">
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFirstTextFallbackChain(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, productHTML)

	// First selector misses, second hits.
	got := FirstText(doc, []string{"h1.missing", ".product-name"})
	require.Equal(t, "Premium Dog Kibble", got)

	// Order decides when several selectors would match.
	got = FirstText(doc, []string{".detail-content", ".product-name"})
	require.Equal(t, "Grain-free dry food for adult dogs.", got)

	require.Empty(t, FirstText(doc, []string{".nope", "#also-nope"}))
	require.Empty(t, FirstText(doc, nil))
}

func TestFirstAttr(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, productHTML)

	got := FirstAttr(doc, []string{"img.product-image", "img.hero"}, "src")
	require.Equal(t, "https://cdn.example.com/kibble.jpg", got)

	require.Empty(t, FirstAttr(doc, []string{"img.hero"}, "data-zoom"))
	require.Empty(t, FirstAttr(doc, []string{".missing"}, "src"))
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"$12.50 incl. tax", 12.50},
		{"12.5", 12.5},
		{"USD 1,299.99", 1299.99},
		{"from 7", 7},
		{"Call for price", 0},
		{"", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, ParsePrice(tt.raw), 1e-9)
		})
	}
}
