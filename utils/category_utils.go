package utils

import "strings"

// ValidCategories are the pantry categories the app recognizes.
var ValidCategories = map[string]bool{
	"dairy":     true,
	"produce":   true,
	"meat":      true,
	"fish":      true,
	"frozen":    true,
	"bakery":    true,
	"beverages": true,
	"pantry":    true,
	"sauces":    true,
	"other":     true,
}

// longShelfLifeCategories default to the extended sealed shelf life.
var longShelfLifeCategories = map[string]bool{
	"pantry": true,
	"sauces": true,
	"frozen": true,
}

// ValidateAndNormalizeCategory validates and normalizes a category string.
// Returns the normalized category (lowercase) and a boolean indicating if
// it's valid.
func ValidateAndNormalizeCategory(category string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(category))
	return normalized, ValidCategories[normalized]
}

// IsLongShelfLifeCategory reports whether items of this category default to
// the extended sealed shelf life while unopened.
func IsLongShelfLifeCategory(category string) bool {
	return longShelfLifeCategories[strings.ToLower(category)]
}
