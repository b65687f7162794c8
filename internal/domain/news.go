package domain

// NewsItem is a single headline from the news snapshot.
// IDs are ordinal indexes within one fetch and are not stable across
// refreshes; the whole collection is replaced on every cycle.
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}
