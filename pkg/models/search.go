package models

import "time"

type MatchType string

const (
	MatchTitle   MatchType = "title"
	MatchAuthor  MatchType = "author"
	MatchContent MatchType = "content"
	MatchTag     MatchType = "tag"
)

// RankedResult is a Poem plus the provenance of the match that selected it.
type RankedResult struct {
	Poem
	MatchType  MatchType `json:"match_type"`
	MatchScore int       `json:"match_score"`
}

type SuggestionType string

const (
	SuggestPoem   SuggestionType = "poem"
	SuggestAuthor SuggestionType = "author"
	SuggestTag    SuggestionType = "tag"
)

type Suggestion struct {
	Type  SuggestionType `json:"type"`
	Text  string         `json:"text"`
	Count int            `json:"count,omitempty"`
}

type PopularTerm struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type SearchLogEntry struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	UserID       string    `json:"user_id,omitempty"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}
