// Package catalog defines the core types and interfaces shared across the
// crawl, scrape, store, and search subsystems.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
)

// PetType is the categorical label assigned to every stored product.
type PetType string

// The closed set of pet type labels.
const (
	PetTypeDog   PetType = "Dog"
	PetTypeCat   PetType = "Cat"
	PetTypeFish  PetType = "Fish"
	PetTypeBird  PetType = "Bird"
	PetTypeOther PetType = "Other"
)

// PetTypes lists every label in classifier priority order, Other last.
func PetTypes() []PetType {
	return []PetType{PetTypeDog, PetTypeCat, PetTypeFish, PetTypeBird, PetTypeOther}
}

// Product is the canonical stored representation of one scraped item.
// ID is derived from the source URL, so re-scraping the same URL always
// addresses the same row.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
	Image       []byte  `json:"-"`
	PetType     PetType `json:"pet_type"`
}

// ProductID returns the content-addressed identifier for a source URL: the
// hex SHA-256 digest of the exact URL string. No normalization is applied,
// matching the upsert key used by the scraper.
func ProductID(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
