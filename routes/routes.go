// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"testbook-api/config"
	"testbook-api/controllers"
	"testbook-api/feed"
	"testbook-api/middleware"
	"testbook-api/repositories"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	relationships := repositories.NewRelationshipRepository(db)
	posts := repositories.NewPostRepository(db)
	engine := feed.NewEngine(relationships, posts)

	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	userController := controllers.NewUserController(db, engine)
	postController := controllers.NewPostController(db, engine)
	commentController := controllers.NewCommentController(db)
	feedController := controllers.NewFeedController(engine)
	devController := controllers.NewDevController(db, cfg.Testing)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	api := r.Group("/api")

	// Auth routes (public, rate limited)
	auth := api.Group("/auth")
	{
		auth.POST("/register",
			middleware.RateLimit(cfg.RegisterRateLimit, cfg.RegisterRateLimit),
			authController.Register)
		auth.POST("/login",
			middleware.RateLimit(cfg.LoginRateLimit, cfg.LoginRateLimit),
			authController.Login)
	}

	// Dev routes (test mode only)
	dev := api.Group("/dev")
	{
		dev.POST("/reset", devController.Reset)
		dev.POST("/seed", devController.Seed)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.Me)

		feeds := protected.Group("/feed")
		{
			feeds.GET("/all", feedController.GetAllFeed)
			feeds.GET("/following", feedController.GetFollowingFeed)
		}

		postsGroup := protected.Group("/posts")
		{
			postsGroup.POST("", postController.CreatePost)
			postsGroup.POST("/repost", postController.CreateRepost)
			postsGroup.DELETE("/repost/:id", postController.RemoveRepost)
			postsGroup.GET("/:id", postController.GetPost)
			postsGroup.PUT("/:id", postController.UpdatePost)
			postsGroup.DELETE("/:id", postController.DeletePost)
			postsGroup.POST("/:id/comments", commentController.CreateComment)
			postsGroup.GET("/:id/comments", commentController.GetComments)
			postsGroup.POST("/:id/reactions", postController.AddReaction)
			postsGroup.DELETE("/:id/reactions", postController.RemoveReaction)
		}

		users := protected.Group("/users")
		{
			users.PUT("/me", userController.UpdateMe)
			users.DELETE("/me", userController.DeleteMe)
			users.GET("/:username", userController.GetProfile)
			users.GET("/:username/posts", userController.GetUserPosts)
			users.GET("/:username/followers", userController.GetFollowers)
			users.GET("/:username/following", userController.GetFollowing)
			users.POST("/:username/follow", userController.FollowUser)
			users.DELETE("/:username/follow", userController.UnfollowUser)
			users.POST("/:username/block", userController.BlockUser)
			users.DELETE("/:username/block", userController.UnblockUser)
		}
	}
}
