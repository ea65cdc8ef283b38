package models

import "time"

// PageHistory is an archived revision of a page, copied from the current
// record right before it was overwritten.
type PageHistory struct {
	ID           int64
	PageID       int64
	Version      int
	Name         string
	Content      string
	Created      time.Time
	LastModified time.Time
}
