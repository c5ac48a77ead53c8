// Package index implements the TF-IDF vector space over stored products and
// cosine-similarity top-k search against it.
//
// An Index is an immutable value built from one Store snapshot. It is never
// updated in place: whenever the store changes, callers rebuild. Rebuilding
// is idempotent and holds no persisted state of its own.
package index

import (
	"math"
	"sort"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

// Result pairs a product with its similarity score in [0, 1].
type Result struct {
	Product catalog.Product `json:"product"`
	Score   float64         `json:"score"`
}

// Index holds the fitted vocabulary and the L2-normalized term-weight
// vector of every product in corpus order.
type Index struct {
	products []catalog.Product
	vocab    map[string]int
	idf      []float64
	vectors  []map[int]float64
}

// Build fits a TF-IDF vocabulary over every product's title+description and
// transforms each product into a normalized weight vector. An empty corpus
// yields an empty index whose searches return nothing.
func Build(products []catalog.Product) *Index {
	idx := &Index{
		products: append([]catalog.Product(nil), products...),
		vocab:    make(map[string]int),
	}

	docs := make([][]string, len(products))
	df := make(map[string]int)
	for i, p := range products {
		terms := tokenize(p.Title + " " + p.Description)
		docs[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	for _, terms := range docs {
		for _, term := range terms {
			if _, known := idx.vocab[term]; !known {
				idx.vocab[term] = len(idx.vocab)
			}
		}
	}

	// Smoothed inverse document frequency: ln((1+n)/(1+df)) + 1.
	n := float64(len(products))
	idx.idf = make([]float64, len(idx.vocab))
	for term, id := range idx.vocab {
		idx.idf[id] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	idx.vectors = make([]map[int]float64, len(docs))
	for i, terms := range docs {
		idx.vectors[i] = idx.vectorize(terms)
	}
	return idx
}

// Size returns the number of indexed products.
func (idx *Index) Size() int {
	return len(idx.products)
}

// Search transforms the query with the already-fitted vocabulary and returns
// the top k products by descending cosine similarity. Out-of-vocabulary
// query terms contribute nothing, so a query with no overlap yields results
// with uniformly zero scores rather than an error. Ties keep corpus order.
func (idx *Index) Search(query string, k int) []Result {
	if k <= 0 || len(idx.products) == 0 {
		return nil
	}

	queryVec := idx.vectorize(tokenize(query))
	results := make([]Result, len(idx.products))
	for i, p := range idx.products {
		results[i] = Result{Product: p, Score: dot(queryVec, idx.vectors[i])}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// vectorize maps terms onto the fitted vocabulary as an L2-normalized
// tf-idf vector. Unknown terms are dropped.
func (idx *Index) vectorize(terms []string) map[int]float64 {
	tf := make(map[int]float64)
	for _, term := range terms {
		if id, known := idx.vocab[term]; known {
			tf[id]++
		}
	}
	var norm float64
	for id, count := range tf {
		w := count * idx.idf[id]
		tf[id] = w
		norm += w * w
	}
	if norm == 0 {
		return tf
	}
	norm = math.Sqrt(norm)
	for id := range tf {
		tf[id] /= norm
	}
	return tf
}

// dot multiplies two normalized sparse vectors, iterating the smaller one.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, wa := range a {
		if wb, ok := b[id]; ok {
			sum += wa * wb
		}
	}
	return sum
}
