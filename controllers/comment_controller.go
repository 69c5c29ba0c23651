package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"testbook-api/models"
)

type CommentController struct {
	db *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := cc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	}

	if err := cc.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	var author models.User
	cc.db.First(&author, "id = ?", userID)

	c.JSON(http.StatusCreated, models.CommentView{
		ID:                   comment.ID,
		Content:              comment.Content,
		AuthorID:             comment.AuthorID,
		AuthorUsername:       author.Username,
		AuthorDisplayName:    author.DisplayName,
		AuthorProfilePicture: author.ProfilePicture,
		CreatedAt:            comment.CreatedAt,
	})
}

func (cc *CommentController) GetComments(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := cc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	if err := cc.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.CommentView{
			ID:                   comment.ID,
			Content:              comment.Content,
			AuthorID:             comment.AuthorID,
			AuthorUsername:       comment.Author.Username,
			AuthorDisplayName:    comment.Author.DisplayName,
			AuthorProfilePicture: comment.Author.ProfilePicture,
			CreatedAt:            comment.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, views)
}
