// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	DisplayName    string    `json:"display_name" gorm:"not null;size:255"`
	HashedPassword string    `json:"-" gorm:"not null;size:255"`
	Bio            string    `json:"bio" gorm:"type:text"`
	ProfilePicture string    `json:"profile_picture" gorm:"size:500;default:'/static/images/default-avatar.jpg'"`
	Theme          string    `json:"theme" gorm:"size:20;default:'light'"`
	TextDensity    string    `json:"text_density" gorm:"size:20;default:'normal'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Posts     []Post     `json:"-" gorm:"foreignKey:AuthorID"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:AuthorID"`
	Reactions []Reaction `json:"-" gorm:"foreignKey:UserID"`
}

// Follow is a directed edge: follower follows following. The two
// directions (following, followed-by) are always queried as separate
// edges, never derived from each other.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID"`
	Following User `json:"-" gorm:"foreignKey:FollowingID"`
}

// Block is a directed edge, but visibility treats it as symmetric:
// once either side blocks, neither sees the other's posts.
type Block struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID string    `json:"blocker_id" gorm:"not null;size:191;uniqueIndex:uk_blocks_blocker_blocked"`
	BlockedID string    `json:"blocked_id" gorm:"not null;size:191;uniqueIndex:uk_blocks_blocker_blocked"`
	CreatedAt time.Time `json:"created_at"`

	Blocker User `json:"-" gorm:"foreignKey:BlockerID"`
	Blocked User `json:"-" gorm:"foreignKey:BlockedID"`
}

// UserListItem is the shape returned by follower/following listings.
type UserListItem struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	IsFollowing    bool   `json:"is_following"`
	IsBlocked      bool   `json:"is_blocked"`
}

// UserProfile is the public profile response for a single user.
type UserProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	IsFollowing    bool      `json:"is_following"`
	IsBlocked      bool      `json:"is_blocked"`
}
