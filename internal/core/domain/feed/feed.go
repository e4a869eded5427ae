package feed

import "time"

// SocialPost is a post pulled from a social feed search. The cache layer
// stores slices of these as opaque JSON.
type SocialPost struct {
	ID       string    `json:"id"`
	Author   string    `json:"author"`
	Content  string    `json:"content"`
	PostedAt time.Time `json:"posted_at"`
	Likes    int       `json:"likes"`
	Reposts  int       `json:"reposts"`
}

// OfficialUpdate is a title/body/timestamp triple extracted from an official
// source page.
type OfficialUpdate struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
}
