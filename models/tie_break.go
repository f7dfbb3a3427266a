package models

import (
	"fmt"
	"strings"
)

// TieBreak selects how tokens with equal scores are ordered in the rank report.
type TieBreak string

const (
	// TieBreakInsertion keeps the input order for equal scores (stable sort).
	// The pipeline feeds tokens in ascending id order.
	TieBreakInsertion TieBreak = "insertion"
	TieBreakID        TieBreak = "id" // Explicit id ascending
)

// ParseTieBreak resolves a tie-break policy name. Empty means insertion order.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", TieBreakInsertion:
		return TieBreakInsertion, nil
	case TieBreakID:
		return TieBreakID, nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q (want insertion or id)", s)
}
