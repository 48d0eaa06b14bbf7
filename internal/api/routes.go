package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/api/middleware"
	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/notify"
)

// Deps 汇总路由所需的全部依赖，由 cmd/api 组装。
type Deps struct {
	Logger         *slog.Logger
	Tokens         *auth.TokenService
	Users          *auth.UserStore
	Content        *content.Repository
	Queue          TaskEnqueuer
	Notifier       notify.Publisher
	Storage        ObjectStore
	Scanner        Scanner
	Chat           Chatter
	Redis          redis.UniversalClient
	MaxImageBytes  int64
	AllowedOrigins []string
}

// RegisterRoutes 注册 /api 下的全部路由。
func RegisterRoutes(router *gin.Engine, d Deps) {
	authHandler := NewAuthHandler(d.Users, d.Tokens)
	contactHandler := NewContactHandler(d.Content, d.Queue, d.Notifier)
	pages := NewContentHandler(d.Content)
	chatHandler := NewChatHandler(d.Chat)
	uploadHandler := NewUploadHandler(d.Storage, d.Scanner, d.MaxImageBytes)
	authMiddleware := middleware.AuthMiddleware(d.Tokens, d.Users)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/auth/login", authHandler.Login)
		apiGroup.GET("/auth/me", authMiddleware, authHandler.Me)

		apiGroup.GET("/introduction", pages.GetIntroduction())
		apiGroup.GET("/socials", pages.GetSocials())
		apiGroup.GET("/skills", pages.ListSkills())
		apiGroup.GET("/projects", pages.ListProjects())
		apiGroup.GET("/achievements", pages.ListAchievements())

		apiGroup.POST("/contact", contactHandler.Submit)
		apiGroup.POST("/ai/chat", chatHandler.Chat)
		apiGroup.GET("/uploads/*key", uploadHandler.ServeUpload)
	}

	// 浏览器无法给 WebSocket 握手加 Authorization 头，所以这里不挂 AuthMiddleware/RequireAdmin。
	// 等价的检查在 WsHandler.authenticate：首帧令牌校验后再查库确认仍是管理员，否则以策略违规关闭。
	if d.Redis != nil {
		wsHandler := NewWsHandler(d.Redis, d.Tokens, d.Users, d.Logger, d.AllowedOrigins)
		router.GET("/api/admin/ws", wsHandler.HandleConnection)
	}

	admin := router.Group("/api/admin", authMiddleware, middleware.RequireAdmin())
	{
		admin.GET("/introduction", pages.GetIntroduction())
		admin.PUT("/introduction", pages.UpdateIntroduction())
		admin.GET("/socials", pages.GetSocials())
		admin.PUT("/socials", pages.UpdateSocials())
		admin.GET("/ai-config", pages.GetAiConfig())
		admin.PUT("/ai-config", pages.UpdateAiConfig())

		admin.POST("/skills", pages.CreateSkill())
		admin.PUT("/skills/:id", pages.UpdateSkill())
		admin.DELETE("/skills/:id", pages.DeleteSkill())

		admin.POST("/projects", pages.CreateProject())
		admin.PUT("/projects/:id", pages.UpdateProject())
		admin.DELETE("/projects/:id", pages.DeleteProject())

		admin.POST("/achievements", pages.CreateAchievement())
		admin.PUT("/achievements/:id", pages.UpdateAchievement())
		admin.DELETE("/achievements/:id", pages.DeleteAchievement())

		admin.GET("/contact-messages", pages.ListContactMessages())
		admin.GET("/contact-messages/unread-count", pages.UnreadCount)
		admin.PUT("/contact-messages/:id/read", pages.MarkMessageRead)

		admin.POST("/upload", uploadHandler.UploadImage)
		admin.POST("/upload-resume", uploadHandler.UploadResume)
		admin.DELETE("/uploads/*key", uploadHandler.DeleteUpload)
	}
}
