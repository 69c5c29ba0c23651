// File: /feed/stores.go
package feed

import (
	"testbook-api/models"
)

// RelationshipStore answers follow/block edge queries. Both directions
// of each relation are independently queryable.
type RelationshipStore interface {
	Following(userID string) ([]string, error)
	Followers(userID string) ([]string, error)
	Blocking(userID string) ([]string, error)
	BlockedBy(userID string) ([]string, error)
}

// PostStore is the engine's view of post, comment and reaction
// storage. GetPost, FindReaction and FindRepostBy return nil (not an
// error) when no matching row exists. The store must enforce the
// (post, user) reaction uniqueness and the (author, original) repost
// uniqueness with real constraints; the engine's own checks are only
// the friendly path.
type PostStore interface {
	// ListPosts returns posts with authors preloaded. A nil authorIDs
	// slice means all posts; an empty non-nil slice means none.
	ListPosts(authorIDs []string) ([]models.Post, error)
	GetPost(id string) (*models.Post, error)
	CountComments(postID string) (int64, error)
	CountReactions(postID string) (int64, error)
	CountReposts(postID string) (int64, error)
	FindReaction(postID, userID string) (*models.Reaction, error)
	FindRepostBy(userID, originalID string) (*models.Post, error)
	InsertPost(post *models.Post) error
	DeletePost(id string) error
	UpsertReaction(postID, userID, reactionType string) error
	DeleteReaction(postID, userID string) error
}
