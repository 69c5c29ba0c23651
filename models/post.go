// File: /models/post.go
package models

import (
	"time"
)

// Reaction types accepted on a post.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionHaha  = "haha"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

type Post struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	AuthorID       string    `json:"author_id" gorm:"not null;size:191;index;uniqueIndex:uk_posts_author_original"`
	Content        string    `json:"content" gorm:"type:text"`
	ImageURL       *string   `json:"image_url" gorm:"size:500"`
	VideoURL       *string   `json:"video_url" gorm:"size:500"`
	IsRepost       bool      `json:"is_repost" gorm:"default:false"`
	OriginalPostID *string   `json:"original_post_id" gorm:"size:191;index;uniqueIndex:uk_posts_author_original"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Author    User       `json:"author" gorm:"foreignKey:AuthorID"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Reactions []Reaction `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type Reaction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PostID       string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_reactions_post_user"`
	UserID       string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_reactions_post_user"`
	ReactionType string    `json:"reaction_type" gorm:"not null;size:20"`
	CreatedAt    time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// ValidReactionType reports whether t is one of the accepted reaction
// types.
func ValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// PostView is the denormalized, viewer-specific shape returned for
// every post in a feed or detail response. For reposts, OriginalPost
// carries a one-level nested view; the nested view never nests
// further.
type PostView struct {
	ID                   string    `json:"id"`
	Content              string    `json:"content"`
	ImageURL             *string   `json:"image_url"`
	VideoURL             *string   `json:"video_url"`
	IsRepost             bool      `json:"is_repost"`
	OriginalPostID       *string   `json:"original_post_id"`
	OriginalPost         *PostView `json:"original_post"`
	AuthorID             string    `json:"author_id"`
	AuthorUsername       string    `json:"author_username"`
	AuthorDisplayName    string    `json:"author_display_name"`
	AuthorProfilePicture string    `json:"author_profile_picture"`
	CreatedAt            time.Time `json:"created_at"`
	CommentsCount        int64     `json:"comments_count"`
	ReactionsCount       int64     `json:"reactions_count"`
	RepostsCount         int64     `json:"reposts_count"`
	UserReaction         *string   `json:"user_reaction"`
	HasReposted          bool      `json:"has_reposted"`
}

// PostDetail extends PostView with the full comment and reaction
// listings for the detail endpoint.
type PostDetail struct {
	PostView
	Comments  []CommentView  `json:"comments"`
	Reactions []ReactionView `json:"reactions"`
}

type ReactionView struct {
	ID           uint      `json:"id"`
	ReactionType string    `json:"reaction_type"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}
