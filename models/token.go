package models

// Attribute is a single (name, value) trait carried by a token.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetadataDocument is the off-chain JSON document a token's metadata URI points at.
// Only the fields the ranking needs are decoded; the cache keeps the verbatim bytes.
type MetadataDocument struct {
	Name       string      `json:"name"`
	DisplayURI string      `json:"displayUri"`
	Attributes []Attribute `json:"attributes"`
}

// CatalogEntry pairs a token id with its metadata locator as reported by the indexer.
type CatalogEntry struct {
	TokenID     int
	MetadataURI string
}

// Token is one collection item as tracked for the run.
type Token struct {
	ID         int         `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	DisplayURI string      `json:"display_uri" yaml:"display_uri"`
	Attributes []Attribute `json:"attributes" yaml:"-"`

	// Computed
	Score float64 `json:"score" yaml:"score"`
	Rank  int     `json:"rank" yaml:"rank"` // 1-based position in the score ordering
}

// NewToken builds a Token from a catalog entry and its resolved metadata.
func NewToken(id int, doc *MetadataDocument) *Token {
	attrs := make([]Attribute, len(doc.Attributes))
	copy(attrs, doc.Attributes)
	return &Token{
		ID:         id,
		Name:       doc.Name,
		DisplayURI: doc.DisplayURI,
		Attributes: attrs,
	}
}
