// File: /controllers/feed_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"testbook-api/feed"
)

type FeedController struct {
	engine *feed.Engine
}

func NewFeedController(engine *feed.Engine) *FeedController {
	return &FeedController{engine: engine}
}

// GetAllFeed returns every visible post from every user, newest first.
func (fc *FeedController) GetAllFeed(c *gin.Context) {
	fc.serveFeed(c, feed.ModeAll)
}

// GetFollowingFeed returns visible posts from users the viewer
// follows. The viewer's own posts are not included.
func (fc *FeedController) GetFollowingFeed(c *gin.Context) {
	fc.serveFeed(c, feed.ModeFollowing)
}

func (fc *FeedController) serveFeed(c *gin.Context, mode feed.Mode) {
	userID := c.GetString("user_id")

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skip parameter"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	views, err := fc.engine.ComposeFeed(userID, mode, skip, limit)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
