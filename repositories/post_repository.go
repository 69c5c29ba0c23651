// File: /repositories/post_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"testbook-api/feed"
	"testbook-api/models"
)

// PostRepository backs the engine's post, comment and reaction queries
// with gorm. It satisfies feed.PostStore. Lookup methods return nil
// for a missing row; only real store failures come back as errors.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (pr *PostRepository) ListPosts(authorIDs []string) ([]models.Post, error) {
	query := pr.db.Preload("Author").Order("created_at DESC")
	if authorIDs != nil {
		query = query.Where("author_id IN ?", authorIDs)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *PostRepository) GetPost(id string) (*models.Post, error) {
	var post models.Post
	err := pr.db.Preload("Author").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (pr *PostRepository) CountComments(postID string) (int64, error) {
	var count int64
	err := pr.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (pr *PostRepository) CountReactions(postID string) (int64, error) {
	var count int64
	err := pr.db.Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (pr *PostRepository) CountReposts(postID string) (int64, error) {
	var count int64
	err := pr.db.Model(&models.Post{}).Where("original_post_id = ?", postID).Count(&count).Error
	return count, err
}

func (pr *PostRepository) FindReaction(postID, userID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := pr.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (pr *PostRepository) FindRepostBy(userID, originalID string) (*models.Post, error) {
	var post models.Post
	err := pr.db.Preload("Author").
		Where("author_id = ? AND original_post_id = ? AND is_repost = ?", userID, originalID, true).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (pr *PostRepository) InsertPost(post *models.Post) error {
	err := pr.db.Create(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The unique (author_id, original_post_id) index caught a
		// concurrent duplicate repost that slipped past the
		// check-then-insert path.
		return feed.ErrAlreadyExists
	}
	return err
}

func (pr *PostRepository) DeletePost(id string) error {
	return pr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}

// UpsertReaction inserts the viewer's reaction or, on conflict with
// the unique (post_id, user_id) index, overwrites the stored type.
// Conflict resolution happens in the store, not in application code,
// so two concurrent reactions from one user can never produce two
// rows.
func (pr *PostRepository) UpsertReaction(postID, userID, reactionType string) error {
	reaction := models.Reaction{
		PostID:       postID,
		UserID:       userID,
		ReactionType: reactionType,
	}
	return pr.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type"}),
	}).Create(&reaction).Error
}

func (pr *PostRepository) DeleteReaction(postID, userID string) error {
	return pr.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{}).Error
}
