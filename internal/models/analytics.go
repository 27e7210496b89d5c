package models

import (
	"encoding/json"
	"time"
)

type ImageCounts struct {
	TotalImages       int64 `json:"total_images"`
	UniqueAuthors     int64 `json:"unique_authors"`
	AuthorsWithImages int64 `json:"authors_with_images"`
}

type TimelineEntry struct {
	UploadDate time.Time
	Count      int64
}

// MarshalJSON writes upload_date as a calendar day.
func (e TimelineEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UploadDate string `json:"upload_date"`
		Count      int64  `json:"count"`
	}{
		UploadDate: e.UploadDate.Format(time.DateOnly),
		Count:      e.Count,
	})
}

type AuthorStat struct {
	Author     string `json:"author"`
	ImageCount int64  `json:"image_count"`
}

type PopularImage struct {
	Name  string `json:"name"`
	Views int64  `json:"views"`
	Path  string `json:"path"`
}

type DashboardTimelineEntry struct {
	TimelineEntry
	ReadableDate string
}

type Dashboard struct {
	Stats    ImageCounts
	Timeline []DashboardTimelineEntry
	Authors  []AuthorStat
	Popular  []PopularImage
}
