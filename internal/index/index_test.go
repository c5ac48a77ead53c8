package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

func corpus() []catalog.Product {
	return []catalog.Product{
		{ID: "dog-1", Title: "Premium Dog Kibble", Description: "Grain-free dry food", PetType: catalog.PetTypeDog},
		{ID: "cat-1", Title: "Feather Teaser", Description: "Interactive cat toy", PetType: catalog.PetTypeCat},
		{ID: "dog-2", Title: "Dog Leash", Description: "Durable nylon walking leash", PetType: catalog.PetTypeDog},
	}
}

func TestSearchRanksDogFoodFirst(t *testing.T) {
	t.Parallel()

	idx := Build(corpus())
	results := idx.Search("dog food", 10)

	require.Len(t, results, 3)
	require.Equal(t, "dog-1", results[0].Product.ID)

	var catScore float64
	for _, r := range results {
		if r.Product.ID == "cat-1" {
			catScore = r.Score
		}
	}
	require.Greater(t, results[0].Score, catScore)
}

func TestSearchScoresOrderedAndBounded(t *testing.T) {
	t.Parallel()

	idx := Build(corpus())
	results := idx.Search("dog kibble leash", 2)

	require.Len(t, results, 2)
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	for _, r := range results {
		require.GreaterOrEqual(t, r.Score, 0.0)
		require.LessOrEqual(t, r.Score, 1.0+1e-9)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	t.Parallel()

	idx := Build(nil)
	require.Zero(t, idx.Size())
	require.Empty(t, idx.Search("dog food", 5))
}

func TestSearchOutOfVocabularyQuery(t *testing.T) {
	t.Parallel()

	idx := Build(corpus())
	results := idx.Search("quantum chromodynamics", 10)

	require.Len(t, results, 3)
	for _, r := range results {
		require.Zero(t, r.Score)
	}
	// Zero-score ties keep corpus order.
	require.Equal(t, "dog-1", results[0].Product.ID)
	require.Equal(t, "cat-1", results[1].Product.ID)
	require.Equal(t, "dog-2", results[2].Product.ID)
}

func TestSearchReturnsFewerThanKWhenCorpusIsSmall(t *testing.T) {
	t.Parallel()

	idx := Build(corpus())
	require.Len(t, idx.Search("dog", 100), 3)
	require.Empty(t, idx.Search("dog", 0))
}

func TestBuildIsIdempotent(t *testing.T) {
	t.Parallel()

	products := corpus()
	first := Build(products).Search("interactive cat toy", 1)
	second := Build(products).Search("interactive cat toy", 1)

	require.Equal(t, first, second)
	require.Equal(t, "cat-1", first[0].Product.ID)
}

func TestIdenticalTextScoresNearOne(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{
		{ID: "p1", Title: "Salmon Fish Flakes", Description: "Color enhancing flakes"},
	}
	for i := 0; i < 5; i++ {
		products = append(products, catalog.Product{
			ID:    fmt.Sprintf("noise-%d", i),
			Title: fmt.Sprintf("Widget %d", i),
		})
	}

	idx := Build(products)
	results := idx.Search("Salmon Fish Flakes Color enhancing flakes", 1)
	require.Len(t, results, 1)
	require.Equal(t, "p1", results[0].Product.ID)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"grain", "free", "dry", "food"},
		tokenize("Grain-free dry food!"),
	)
	// Stop words and single characters disappear.
	require.Equal(t,
		[]string{"toy", "cats"},
		tokenize("a toy for the cats"),
	)
	require.Empty(t, tokenize(""))
}
