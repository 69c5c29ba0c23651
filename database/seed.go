// File: /database/seed.go
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"testbook-api/models"
)

type seedUser struct {
	Email          string
	Username       string
	DisplayName    string
	Password       string
	Bio            string
	ProfilePicture string
}

var seedUsers = []seedUser{
	{
		Email:          "sarah.johnson@testbook.com",
		Username:       "sarahjohnson",
		DisplayName:    "Sarah Johnson",
		Password:       "Sarah2024!",
		Bio:            "Mom of 3 | Coffee enthusiast | Living my best life!",
		ProfilePicture: "/static/images/avatar-sarah.jpg",
	},
	{
		Email:          "mike.chen@testbook.com",
		Username:       "mikechen",
		DisplayName:    "Mike Chen",
		Password:       "MikeRocks88",
		Bio:            "Adventure seeker | Photography lover | Always exploring",
		ProfilePicture: "/static/images/avatar-mike.jpg",
	},
	{
		Email:          "emma.davis@testbook.com",
		Username:       "emmadavis",
		DisplayName:    "Emma Davis",
		Password:       "EmmaLovesPhotos",
		Bio:            "Professional photographer | Nature lover | Dog mom",
		ProfilePicture: "/static/images/avatar-emma.jpg",
	},
	{
		Email:          "alex.rodriguez@testbook.com",
		Username:       "alexrodriguez",
		DisplayName:    "XxAlexRodriguezxX",
		Password:       "Alex1234",
		Bio:            "Gamer | Tech enthusiast | Always online",
		ProfilePicture: "/static/images/avatar-alex.jpg",
	},
}

// Seed populates an empty database with a small cast of users, their
// relationships and a handful of posts. All writes go through the
// passed handle; nothing here touches process-wide state.
func Seed(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	users := make([]models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := models.User{
			ID:             uuid.New().String(),
			Email:          su.Email,
			Username:       su.Username,
			DisplayName:    su.DisplayName,
			HashedPassword: string(hashed),
			Bio:            su.Bio,
			ProfilePicture: su.ProfilePicture,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", su.Username, err)
		}
		users = append(users, user)
	}

	sarah, mike, emma, alex := users[0], users[1], users[2], users[3]

	follows := []models.Follow{
		{FollowerID: sarah.ID, FollowingID: mike.ID},
		{FollowerID: sarah.ID, FollowingID: emma.ID},
		{FollowerID: mike.ID, FollowingID: sarah.ID},
		{FollowerID: emma.ID, FollowingID: sarah.ID},
		{FollowerID: emma.ID, FollowingID: mike.ID},
	}
	for _, follow := range follows {
		if err := db.Create(&follow).Error; err != nil {
			return fmt.Errorf("failed to create seed follow: %w", err)
		}
	}

	// Sarah has Alex blocked; neither should see the other anywhere.
	block := models.Block{BlockerID: sarah.ID, BlockedID: alex.ID}
	if err := db.Create(&block).Error; err != nil {
		return fmt.Errorf("failed to create seed block: %w", err)
	}

	now := time.Now()
	posts := []models.Post{
		{
			ID:        uuid.New().String(),
			AuthorID:  sarah.ID,
			Content:   "Just finished my third coffee of the morning. The kids are finally at school!",
			CreatedAt: now.Add(-3 * time.Hour),
		},
		{
			ID:        uuid.New().String(),
			AuthorID:  mike.ID,
			Content:   "Sunrise from the summit. Worth every step of the 4am start.",
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        uuid.New().String(),
			AuthorID:  emma.ID,
			Content:   "New photo series dropping this week. Golden hour never disappoints.",
			CreatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID:        uuid.New().String(),
			AuthorID:  alex.ID,
			Content:   "Anyone up for ranked tonight?",
			CreatedAt: now.Add(-30 * time.Minute),
		},
	}
	for i := range posts {
		if err := db.Create(&posts[i]).Error; err != nil {
			return fmt.Errorf("failed to create seed post: %w", err)
		}
	}

	comment := models.Comment{
		ID:       uuid.New().String(),
		PostID:   posts[1].ID,
		AuthorID: sarah.ID,
		Content:  "Stunning view! Which trail is this?",
	}
	if err := db.Create(&comment).Error; err != nil {
		return fmt.Errorf("failed to create seed comment: %w", err)
	}

	reactions := []models.Reaction{
		{PostID: posts[1].ID, UserID: sarah.ID, ReactionType: models.ReactionLove},
		{PostID: posts[1].ID, UserID: emma.ID, ReactionType: models.ReactionWow},
		{PostID: posts[0].ID, UserID: mike.ID, ReactionType: models.ReactionHaha},
	}
	for _, reaction := range reactions {
		if err := db.Create(&reaction).Error; err != nil {
			return fmt.Errorf("failed to create seed reaction: %w", err)
		}
	}

	repost := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       emma.ID,
		Content:        "Mike's shots keep getting better.",
		IsRepost:       true,
		OriginalPostID: &posts[1].ID,
		CreatedAt:      now.Add(-15 * time.Minute),
	}
	if err := db.Create(&repost).Error; err != nil {
		return fmt.Errorf("failed to create seed repost: %w", err)
	}

	fmt.Printf("Seeded %d users and %d posts\n", len(users), len(posts)+1)
	return nil
}
