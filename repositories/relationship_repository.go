// File: /repositories/relationship_repository.go
package repositories

import (
	"gorm.io/gorm"

	"testbook-api/models"
)

// RelationshipRepository answers follow/block edge queries from the
// relational store. It satisfies feed.RelationshipStore.
type RelationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

func (rr *RelationshipRepository) Following(userID string) ([]string, error) {
	var ids []string
	err := rr.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (rr *RelationshipRepository) Followers(userID string) ([]string, error) {
	var ids []string
	err := rr.db.Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (rr *RelationshipRepository) Blocking(userID string) ([]string, error) {
	var ids []string
	err := rr.db.Model(&models.Block{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}

func (rr *RelationshipRepository) BlockedBy(userID string) ([]string, error) {
	var ids []string
	err := rr.db.Model(&models.Block{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &ids).Error
	return ids, err
}
