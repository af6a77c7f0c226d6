// Package model defines the records that flow through the risk pipeline.
package model

// Tier buckets a company by size and market position.
type Tier string

const (
	TierOne     Tier = "Tier 1"
	TierTwo     Tier = "Tier 2"
	TierThree   Tier = "Tier 3"
	TierUnknown Tier = "Unknown"
)

// Tiers lists every tier, including Unknown, in table order.
var Tiers = []Tier{TierOne, TierTwo, TierThree, TierUnknown}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierOne, TierTwo, TierThree, TierUnknown:
		return true
	}
	return false
}

// MatchKind tags how a free-text company name became a symbol.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchSearch    MatchKind = "search"
	MatchNone      MatchKind = "none"
)

// LowConfidence is true for matches found by containment or search.
func (m MatchKind) LowConfidence() bool {
	return m == MatchSubstring || m == MatchSearch
}

// CompanyIdentity is the resolved form of a user-supplied company name.
type CompanyIdentity struct {
	RawName     string    `json:"raw_name"`
	Symbol      string    `json:"resolved_symbol"`
	MatchedName string    `json:"matched_name,omitempty"`
	Tier        Tier      `json:"tier"`
	Match       MatchKind `json:"match"`
}
