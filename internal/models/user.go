package models

// User represents a registered wiki author.
type User struct {
	ID     int64
	Name   string
	PwHash string
	Email  *string
}
