package models

import "time"

// Page represents the current content of a wiki page.
type Page struct {
	ID           int64
	Name         string
	Content      string
	Created      time.Time
	LastModified time.Time
}
