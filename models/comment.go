package models

import (
	"time"
)

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;index"`
	AuthorID  string    `json:"author_id" gorm:"not null;size:191;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Post   Post `json:"-" gorm:"foreignKey:PostID"`
	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// CommentView is the response shape for a comment with denormalized
// author fields.
type CommentView struct {
	ID                   string    `json:"id"`
	Content              string    `json:"content"`
	AuthorID             string    `json:"author_id"`
	AuthorUsername       string    `json:"author_username"`
	AuthorDisplayName    string    `json:"author_display_name"`
	AuthorProfilePicture string    `json:"author_profile_picture"`
	CreatedAt            time.Time `json:"created_at"`
}
