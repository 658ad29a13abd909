package models

import (
	"regexp"
	"strings"
	"time"
)

// Product categories mirror the catalog taxonomy.
var ProductCategories = []string{
	"Protein", "Creatine", "Pre-Workout", "Recovery", "BCAA", "Mass Gainer",
}

type Product struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Slug          string    `json:"slug" bson:"slug"`
	Description   string    `json:"description" bson:"description"`
	Benefits      []string  `json:"benefits" bson:"benefits"`
	Ingredients   []string  `json:"ingredients" bson:"ingredients"`
	HowToUse      string    `json:"how_to_use" bson:"how_to_use"`
	Warnings      string    `json:"warnings" bson:"warnings"`
	Category      string    `json:"category" bson:"category"`
	Price         float64   `json:"price" bson:"price"`
	ComparePrice  float64   `json:"compare_price,omitempty" bson:"compare_price,omitempty"`
	Images        []string  `json:"images" bson:"images"`
	InStock       bool      `json:"in_stock" bson:"in_stock"`
	StockQuantity int       `json:"stock_quantity" bson:"stock_quantity"`
	Featured      bool      `json:"featured" bson:"featured"`
	Rating        float64   `json:"rating" bson:"rating"`
	NumReviews    int       `json:"num_reviews" bson:"num_reviews"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a product or post name.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
