package models

// Poem is the normalized, source-agnostic form of one work.
//
// Every collection is mapped into this structure first; search, browse and
// the HTTP layer only ever see this representation.
type Poem struct {
	ID       string         `json:"id"`                 // unique within Source
	Title    string         `json:"title"`              // never empty ("无题" fallback)
	Author   string         `json:"author"`             // never empty ("佚名" fallback)
	Dynasty  string         `json:"dynasty"`            // coarse period label, e.g. "唐"
	Content  []string       `json:"content"`            // one entry per line/verse, reading order
	Tags     []string       `json:"tags"`               // collection name + descriptive labels
	Source   string         `json:"source"`             // originating collection
	Metadata map[string]any `json:"metadata,omitempty"` // source-specific extras, never interpreted
}

// Valid reports whether p satisfies the canonical record invariants.
func (p Poem) Valid() bool {
	return p.ID != "" && p.Title != "" && p.Author != "" && len(p.Content) > 0
}

// Key identifies a poem across sources; ids are only unique per source.
func (p Poem) Key() string {
	return p.Source + "/" + p.ID
}

type AuthorCount struct {
	Author  string `json:"author"`
	Dynasty string `json:"dynasty"`
	Count   int    `json:"count"`
}

type SourceStat struct {
	Source string `json:"source"`
	Poems  int    `json:"poems"`
}
