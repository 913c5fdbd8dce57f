package domain

// CategoryRecord is a leaf category ("subject") of a user's chart of accounts
// together with the major grouping it belongs to. Records are loaded read-only
// from a category directory; nothing in the quick-entry path mutates them.
type CategoryRecord struct {
	// MajorCode is the code of the major grouping, e.g. "5".
	MajorCode string `json:"majorCode" yaml:"majorCode"`
	// MajorName is the display name of the major grouping, e.g. "餐飲".
	MajorName string `json:"majorName" yaml:"majorName"`
	// SubCode uniquely identifies the category within a user's directory.
	SubCode string `json:"subCode" yaml:"subCode"`
	// SubName is the display name users usually type, e.g. "午餐".
	SubName string `json:"subName" yaml:"subName"`
	// Synonyms are alternate phrases that resolve to this category.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
}

// MatchType tells how a phrase was resolved to a category.
type MatchType string

const (
	// MatchExact means the phrase equals the category's SubName.
	MatchExact MatchType = "EXACT"
	// MatchSynonymExact means the phrase equals one of the category's synonyms.
	MatchSynonymExact MatchType = "SYNONYM_EXACT"
	// MatchContainsSubName means the category's SubName occurs inside the phrase.
	MatchContainsSubName MatchType = "CONTAINS_SUB_NAME"
	// MatchContainsSynonym means one of the synonyms occurs inside the phrase.
	MatchContainsSynonym MatchType = "CONTAINS_SYNONYM"
)

// MatchResult is the outcome of resolving a phrase against a category
// directory. Score is in [0, 1] and equals 1 only for MatchExact.
type MatchResult struct {
	Category  CategoryRecord `json:"category"`
	Score     float64        `json:"score"`
	MatchType MatchType      `json:"matchType"`
}
