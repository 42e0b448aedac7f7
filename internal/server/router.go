package server

import (
	"net/http"
	"time"

	"messagely/internal/auth"
	"messagely/internal/config"
	"messagely/internal/metrics"
	"messagely/internal/mw"
	"messagely/internal/service"
	"messagely/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter 统一初始化 Gin 中间件、REST API 以及 WebSocket 端点。
func SetupRouter(cfg config.Config, gdb *gorm.DB, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTLMinutes)

	authSvc := service.NewAuthService(gdb, hasher, tokens)
	userSvc := service.NewUserService(gdb)
	msgSvc := service.NewMessageService(gdb, hub)
	bookSvc := service.NewBookService(gdb)

	h := NewHandler(authSvc, userSvc, msgSvc)
	bh := NewBookHandler(bookSvc)

	api := r.Group("/api/v1")
	api.Use(auth.Authenticate(tokens))

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// 书目接口沿用原始系统的开放访问，不要求登录。
	api.GET("/books", bh.List)
	api.GET("/books/:isbn", bh.Get)
	api.POST("/books", bh.Create)
	api.PUT("/books/:isbn", bh.Update)
	api.DELETE("/books/:isbn", bh.Delete)

	// 需要登录身份的接口。
	authed := api.Group("")
	authed.Use(auth.RequireAuth())

	authed.GET("/users", h.ListUsers)
	authed.GET("/users/:username", h.GetUser)
	authed.GET("/users/:username/from", h.ListMessagesFrom)
	authed.GET("/users/:username/to", h.ListMessagesTo)

	authed.POST("/messages", h.CreateMessage)
	authed.GET("/messages/:id", h.GetMessage)
	authed.POST("/messages/:id/read", h.MarkMessageRead)

	r.GET("/ws", ws.Serve(hub, gdb, tokens))

	return r
}
