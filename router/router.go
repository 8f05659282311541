package router

import (
	"net/http"
	"time"

	"sciarticles/handlers"
	"sciarticles/helper"
	"sciarticles/middleware"
	"sciarticles/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Dependencies struct {
	Log             *zap.Logger
	Helper          *helper.HTTPHelper
	Verifier        *middleware.SessionVerifier
	IdentityService services.IdentityService
	ArticleService  services.ArticleService
	Renderer        services.MarkdownRenderer
	AllowedOrigins  []string
}

func corsConfig(origins []string) cors.Config {
	allowedOrigins := origins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	allowCreds := true
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		allowCreds = false
	}

	return cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}
}

func InitRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Log))
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	articleHandler := handlers.NewArticleHandler(deps.ArticleService, deps.Helper)
	tagHandler := handlers.NewTagHandler(deps.ArticleService, deps.Helper)
	profileHandler := handlers.NewProfileHandler(deps.Helper)
	pageHandler := handlers.NewPageHandler(deps.ArticleService, deps.Renderer, deps.Helper)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/article/:slug", pageHandler.ArticlePage)

	api := r.Group("/api")
	{
		api.GET("/articles", articleHandler.GetPublicArticles)
		api.GET("/articles/search", articleHandler.SearchArticles)
		api.GET("/tags", tagHandler.GetTags)
		api.GET("/public/articles/:slug", articleHandler.GetPublicArticle)
	}

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(deps.Verifier, deps.Helper),
		middleware.ResolveUser(deps.IdentityService, deps.Helper),
	)
	{
		protected.POST("/articles", articleHandler.CreateArticle)
		protected.GET("/articles/:id", articleHandler.GetArticle)
		protected.PATCH("/articles/:id", articleHandler.UpdateArticle)
		protected.DELETE("/articles/:id", articleHandler.DeleteArticle)

		protected.GET("/me", profileHandler.GetProfile)
		protected.GET("/me/articles", articleHandler.GetMyArticles)
	}

	return r
}
