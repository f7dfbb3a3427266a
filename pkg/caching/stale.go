package caching

import "github.com/dtnitsch/nft-rarity/models"

// StalePredicate reports whether a cached document must be discarded and re-resolved.
// Predicates are one-off data-migration rules, evaluated on every cache hit.
type StalePredicate func(doc *models.MetadataDocument) bool

// PrehatchPlaceholder matches the trait set served before a GOGO hatched:
// a single "Vital Signs: Normal" attribute in place of the real traits.
func PrehatchPlaceholder(doc *models.MetadataDocument) bool {
	return len(doc.Attributes) == 1 &&
		doc.Attributes[0].Name == "Vital Signs" &&
		doc.Attributes[0].Value == "Normal"
}

// DefaultStalePredicates are the migration rules applied when none are configured.
func DefaultStalePredicates() []StalePredicate {
	return []StalePredicate{PrehatchPlaceholder}
}

func anyStale(doc *models.MetadataDocument, preds []StalePredicate) bool {
	for _, p := range preds {
		if p(doc) {
			return true
		}
	}
	return false
}
