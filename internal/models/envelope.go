package models

// PageMeta is the pagination block of the REST envelope.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta computes TotalPages for the given total; an empty result still has one page.
func NewPageMeta(page, limit int, total int64) *PageMeta {
	totalPages := 1
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Envelope is the response shape shared with the platform REST backend.
type Envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
	Message string    `json:"message,omitempty"`
}
