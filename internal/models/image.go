package models

import "time"

type Image struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Path        string    `json:"path"`
	Views       int64     `json:"views"`
	Date        time.Time `json:"date"`
}

// GalleryImage is an Image prepared for the gallery page.
type GalleryImage struct {
	Image
	FormattedDate string
}
