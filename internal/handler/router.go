package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Links     *LinkHandler
	Groups    *GroupHandler
	Tags      *TagHandler
	Comments  *CommentHandler
	Export    *ExportHandler
	Files     *FileHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.GET("/links", deps.Links.List)
	authGroup.POST("/links", deps.Links.Create)
	authGroup.GET("/links/:id", deps.Links.Get)
	authGroup.PATCH("/links/:id", deps.Links.Update)
	authGroup.DELETE("/links/:id", deps.Links.Delete)
	authGroup.POST("/links/:id/bookmark", deps.Links.Bookmark)
	authGroup.POST("/links/:id/unbookmark", deps.Links.Unbookmark)
	authGroup.GET("/users/:id/links", deps.Links.ListByUser)

	authGroup.GET("/links/:id/comments", deps.Comments.ListByLink)
	authGroup.POST("/links/:id/comments", deps.Comments.Create)
	authGroup.PATCH("/comments/:id", deps.Comments.Update)
	authGroup.DELETE("/comments/:id", deps.Comments.Delete)

	authGroup.GET("/groups", deps.Groups.List)
	authGroup.POST("/groups", deps.Groups.Create)
	authGroup.GET("/groups/:id", deps.Groups.Get)
	authGroup.PATCH("/groups/:id", deps.Groups.Update)
	authGroup.DELETE("/groups/:id", deps.Groups.Delete)
	authGroup.PUT("/groups/:id/links", deps.Groups.SetLinks)
	authGroup.POST("/groups/:id/bookmark", deps.Groups.Bookmark)
	authGroup.POST("/groups/:id/unbookmark", deps.Groups.Unbookmark)

	authGroup.GET("/tags", deps.Tags.List)
	authGroup.GET("/tags/popular", deps.Tags.Popular)
	authGroup.GET("/tags/search", deps.Tags.Search)

	authGroup.GET("/export", deps.Export.Export)
	authGroup.POST("/files/upload", deps.Files.Upload)

	api.GET("/files/*key", deps.Files.Get)
}
