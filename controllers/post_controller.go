// File: /controllers/post_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"testbook-api/feed"
	"testbook-api/models"
)

type PostController struct {
	db     *gorm.DB
	engine *feed.Engine
}

func NewPostController(db *gorm.DB, engine *feed.Engine) *PostController {
	return &PostController{
		db:     db,
		engine: engine,
	}
}

type CreatePostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

type UpdatePostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

type ReactionRequest struct {
	ReactionType string `json:"reaction_type" binding:"required"`
}

type RepostRequest struct {
	OriginalPostID string `json:"original_post_id" binding:"required"`
	Content        string `json:"content"`
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		ID:       uuid.New().String(),
		AuthorID: userID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}

	if err := pc.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author so the view carries the denormalized fields
	pc.db.Preload("Author").First(&post, "id = ?", post.ID)

	view, err := pc.engine.BuildPostView(post, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetPost returns the full detail view of one post, including its
// comment and reaction listings. A post from a blocked (either
// direction) author is not viewable.
func (pc *PostController) GetPost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.Preload("Author").First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	blocked, err := pc.engine.BlockedBetween(userID, post.AuthorID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if blocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view this post"})
		return
	}

	view, err := pc.engine.BuildPostView(post, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	var comments []models.Comment
	if err := pc.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	commentViews := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		commentViews = append(commentViews, models.CommentView{
			ID:                   comment.ID,
			Content:              comment.Content,
			AuthorID:             comment.AuthorID,
			AuthorUsername:       comment.Author.Username,
			AuthorDisplayName:    comment.Author.DisplayName,
			AuthorProfilePicture: comment.Author.ProfilePicture,
			CreatedAt:            comment.CreatedAt,
		})
	}

	var reactions []models.Reaction
	if err := pc.db.Preload("User").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&reactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reactions"})
		return
	}
	reactionViews := make([]models.ReactionView, 0, len(reactions))
	for _, reaction := range reactions {
		reactionViews = append(reactionViews, models.ReactionView{
			ID:           reaction.ID,
			ReactionType: reaction.ReactionType,
			UserID:       reaction.UserID,
			Username:     reaction.User.Username,
			DisplayName:  reaction.User.DisplayName,
			CreatedAt:    reaction.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, models.PostDetail{
		PostView:  view,
		Comments:  commentViews,
		Reactions: reactionViews,
	})
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this post"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"content": req.Content,
	}
	if req.ImageURL != nil {
		updates["image_url"] = req.ImageURL
	}
	if req.VideoURL != nil {
		updates["video_url"] = req.VideoURL
	}

	if err := pc.db.Model(&post).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	pc.db.Preload("Author").First(&post, "id = ?", postID)
	view, err := pc.engine.BuildPostView(post, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this post"})
		return
	}

	// Comments and reactions go with the post
	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// AddReaction records or overwrites the viewer's reaction on a post
// and returns the recomputed view.
func (pc *PostController) AddReaction(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := pc.engine.ToggleReaction(postID, userID, req.ReactionType)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (pc *PostController) RemoveReaction(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	view, err := pc.engine.RemoveReaction(postID, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CreateRepost wraps an existing post. Reposting the same original
// twice is a conflict.
func (pc *PostController) CreateRepost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req RepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := pc.engine.CreateRepost(req.OriginalPostID, userID, req.Content)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// RemoveRepost deletes the viewer's repost of the given original post.
func (pc *PostController) RemoveRepost(c *gin.Context) {
	userID := c.GetString("user_id")
	originalID := c.Param("id")

	if err := pc.engine.RemoveRepost(originalID, userID); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Repost removed successfully"})
}
