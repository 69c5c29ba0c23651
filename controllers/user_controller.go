// File: /controllers/user_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"testbook-api/feed"
	"testbook-api/models"
)

type UserController struct {
	db     *gorm.DB
	engine *feed.Engine
}

func NewUserController(db *gorm.DB, engine *feed.Engine) *UserController {
	return &UserController{
		db:     db,
		engine: engine,
	}
}

type UpdateProfileRequest struct {
	DisplayName    *string `json:"display_name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
	Theme          *string `json:"theme"`
	TextDensity    *string `json:"text_density"`
}

// GetProfile returns the public profile of a user by username,
// including whether the viewer follows or is blocked from them.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var user models.User
	if err := uc.db.First(&user, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	blocked, err := uc.engine.BlockedBetween(userID, user.ID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	var followersCount, followingCount, postsCount int64
	uc.db.Model(&models.Follow{}).Where("following_id = ?", user.ID).Count(&followersCount)
	uc.db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&followingCount)
	uc.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&postsCount)

	var isFollowing bool
	var follow models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, user.ID).
		First(&follow).Error; err == nil {
		isFollowing = true
	}

	c.JSON(http.StatusOK, models.UserProfile{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
		PostsCount:     postsCount,
		IsFollowing:    isFollowing,
		IsBlocked:      blocked,
	})
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfilePicture != nil {
		picture := *req.ProfilePicture
		if picture == "" {
			picture = "/static/images/default-avatar.jpg"
		}
		updates["profile_picture"] = picture
	}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.TextDensity != nil {
		updates["text_density"] = *req.TextDensity
	}

	if len(updates) > 0 {
		if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	uc.db.First(&user, "id = ?", userID)
	c.JSON(http.StatusOK, user)
}

// DeleteMe removes the account and everything hanging off it.
func (uc *UserController) DeleteMe(c *gin.Context) {
	userID := c.GetString("user_id")

	err := uc.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []string
		if err := tx.Model(&models.Post{}).Where("author_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_id = ? OR blocked_id = ?", userID, userID).
			Delete(&models.Block{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var target models.User
	if err := uc.db.First(&target, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var existing models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, target.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following this user"})
		return
	}

	follow := models.Follow{
		FollowerID:  userID,
		FollowingID: target.ID,
	}
	if err := uc.db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Now following " + username})
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var target models.User
	if err := uc.db.First(&target, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var follow models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, target.ID).
		First(&follow).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not following this user"})
		return
	}

	if err := uc.db.Delete(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed " + username})
}

// BlockUser creates the block edge and tears down any follow
// relationship in both directions.
func (uc *UserController) BlockUser(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var target models.User
	if err := uc.db.First(&target, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}

	var existing models.Block
	if err := uc.db.Where("blocker_id = ? AND blocked_id = ?", userID, target.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already blocking this user"})
		return
	}

	err := uc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			userID, target.ID, target.ID, userID,
		).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		block := models.Block{
			BlockerID: userID,
			BlockedID: target.ID,
		}
		return tx.Create(&block).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blocked " + username})
}

func (uc *UserController) UnblockUser(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var target models.User
	if err := uc.db.First(&target, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var block models.Block
	if err := uc.db.Where("blocker_id = ? AND blocked_id = ?", userID, target.ID).
		First(&block).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not blocking this user"})
		return
	}

	if err := uc.db.Delete(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unblocked " + username})
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	uc.listRelated(c, "following_id", "follower_id")
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	uc.listRelated(c, "follower_id", "following_id")
}

// listRelated lists users on one side of the follow edge for the user
// in the path, annotated with the viewer's own follow/block state.
func (uc *UserController) listRelated(c *gin.Context, matchColumn, pluckColumn string) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	var user models.User
	if err := uc.db.First(&user, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var relatedIDs []string
	if err := uc.db.Model(&models.Follow{}).Where(matchColumn+" = ?", user.ID).
		Pluck(pluckColumn, &relatedIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	items := make([]models.UserListItem, 0, len(relatedIDs))
	if len(relatedIDs) == 0 {
		c.JSON(http.StatusOK, items)
		return
	}

	var related []models.User
	if err := uc.db.Where("id IN ?", relatedIDs).Find(&related).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	blocked, err := uc.engine.BlockedSet(userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	var viewerFollowingIDs []string
	uc.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("following_id", &viewerFollowingIDs)
	viewerFollowing := make(map[string]struct{}, len(viewerFollowingIDs))
	for _, id := range viewerFollowingIDs {
		viewerFollowing[id] = struct{}{}
	}

	for _, ru := range related {
		_, isFollowing := viewerFollowing[ru.ID]
		_, isBlocked := blocked[ru.ID]
		items = append(items, models.UserListItem{
			ID:             ru.ID,
			Username:       ru.Username,
			DisplayName:    ru.DisplayName,
			Bio:            ru.Bio,
			ProfilePicture: ru.ProfilePicture,
			IsFollowing:    isFollowing,
			IsBlocked:      isBlocked,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetUserPosts lists a user's posts, newest first. A blocked
// relationship in either direction yields an empty list rather than an
// error.
func (uc *UserController) GetUserPosts(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.Param("username")

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skip parameter"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	if limit > feed.MaxLimit {
		limit = feed.MaxLimit
	}

	var user models.User
	if err := uc.db.First(&user, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	blocked, err := uc.engine.BlockedBetween(userID, user.ID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if blocked {
		c.JSON(http.StatusOK, []models.PostView{})
		return
	}

	var posts []models.Post
	if err := uc.db.Preload("Author").Where("author_id = ?", user.ID).
		Order("created_at DESC").Offset(skip).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	views, err := uc.engine.Views(posts, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
