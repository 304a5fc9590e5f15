package catalog

// categoryAliases maps the product catalog's category vocabulary to the
// offer catalog's canonical labels.
var categoryAliases = map[string]string{
	"elektronika": "electronics",
	"telefon":     "electronics",
	"geyim":       "clothing",
	"ev":          "home_decor",
	"kosmetika":   "home_decor",
	"kitab":       "home_decor",
}

// NormalizeCategory maps a product's raw category label to the offer
// catalog's canonical label. Unknown labels pass through unchanged; this
// is never an error.
func NormalizeCategory(raw string) string {
	if canonical, ok := categoryAliases[raw]; ok {
		return canonical
	}
	return raw
}
