package model

import "time"

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     string    `json:"cover,omitempty"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the user info recovered from a verified session token.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

type SiteStats struct {
	Users int64 `json:"users"`
	Posts int64 `json:"posts"`
}
