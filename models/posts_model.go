package models

import (
	"time"
)

// Post is the single persisted entity. IDs are assigned by Postgres
// and never reused after deletion (BIGSERIAL sequence).
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaginationMeta describes the window a search result was cut from.
// Total counts matches before the window is applied.
type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// SearchResult pairs a page of posts with its pagination metadata.
type SearchResult struct {
	Data       []Post         `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// Stats reports how many posts are published vs still drafts.
type Stats struct {
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Total     int `json:"total"`
}
