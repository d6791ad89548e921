package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/quill/config"
	"github.com/cppla/quill/controllers"
	"github.com/cppla/quill/middleware"
	"github.com/cppla/quill/services"
	"github.com/cppla/quill/store"
	"github.com/cppla/quill/utils"
)

// SetupRouter wires middlewares, services and controllers over st.
func SetupRouter(cfg config.AppConfig, st store.Store) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r := gin.New()
	r.Use(utils.Ginzap(utils.Logger, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(utils.Logger, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Authenticate(cfg.JWTSecret))

	authors := services.NewAuthorResolver(st, time.Duration(cfg.AuthorBatchWaitMS)*time.Millisecond)
	r.Use(middleware.RequestScope(authors.Scope))
	commentService := services.NewCommentService(st, st, authors)
	postService := services.NewPostService(st, commentService, authors)

	authController := controllers.NewAuthController(st, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	postController := controllers.NewPostController(postService, cfg.OwnershipMismatchStatus)
	commentController := controllers.NewCommentController(commentService, cfg.OwnershipMismatchStatus)
	healthController := controllers.NewHealthController(st)

	r.GET("/health", healthController.Health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Mutations take the caller identity from Authenticate; the services
	// reject anonymous callers.
	r.GET("/posts", postController.ListPosts)
	r.GET("/post/:post_id", postController.GetPost)
	r.POST("/post", postController.CreatePost)
	r.PATCH("/post/:post_id", postController.UpdatePost)
	r.DELETE("/post/:post_id", postController.DeletePost)

	r.GET("/comments", commentController.ListComments)
	r.POST("/comment", commentController.CreateComment)
	r.PATCH("/comment/:comment_id", commentController.UpdateComment)
	r.DELETE("/comment/:comment_id", commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
