package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"messagely/internal/auth"
	"messagely/internal/metrics"
	"messagely/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合用户与消息相关的 HTTP handler，依赖注入 service 层。
type Handler struct {
	authSvc *service.AuthService
	userSvc *service.UserService
	msgSvc  *service.MessageService
}

func NewHandler(authSvc *service.AuthService, userSvc *service.UserService, msgSvc *service.MessageService) *Handler {
	return &Handler{authSvc: authSvc, userSvc: userSvc, msgSvc: msgSvc}
}

// Register 处理用户注册请求，成功后直接返回登录 token。
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.Username) < 2 || len(req.Username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		return
	}
	if len(req.Password) < 4 || len(req.Password) > 72 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password"})
		return
	}
	result, err := h.authSvc.Register(req.Username, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("register")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": result.User})
}

// Login 处理用户登录请求。用户不存在和密码错误返回同样的 400。
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	result, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": result.User})
}

// ListUsers 返回全部用户的基本信息。
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.All()
	if err != nil {
		log.Error().Err(err).Msg("list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser 返回单个用户的详细信息。
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Param("username")
	user, err := h.userSvc.Get(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
			return
		}
		log.Error().Err(err).Str("username", username).Msg("get user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListMessagesFrom 返回某用户的发件箱，只有本人可以看。
func (h *Handler) ListMessagesFrom(c *gin.Context) {
	username := c.Param("username")
	if auth.CurrentUsername(c) != username {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}
	msgs, err := h.userSvc.MessagesFrom(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("list sent messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ListMessagesTo 返回某用户的收件箱，只有本人可以看。
func (h *Handler) ListMessagesTo(c *gin.Context) {
	username := c.Param("username")
	if auth.CurrentUsername(c) != username {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}
	msgs, err := h.userSvc.MessagesTo(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("list received messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// CreateMessage 发送私信，发件人取自已认证身份。
func (h *Handler) CreateMessage(c *gin.Context) {
	var req struct {
		ToUsername string `json:"to_username"`
		Body       string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.ToUsername = strings.TrimSpace(req.ToUsername)
	if req.ToUsername == "" || req.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	from := auth.CurrentUsername(c)
	msg, err := h.msgSvc.Create(from, req.ToUsername, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
			return
		}
		log.Error().Err(err).Str("from", from).Str("to", req.ToUsername).Msg("create message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// GetMessage 返回单条消息，先取记录再做可见性判定：
// 只有发送方或接收方可以读取，其余身份一律 401。
func (h *Handler) GetMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	msg, err := h.msgSvc.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such message"})
			return
		}
		log.Error().Err(err).Int("message_id", id).Msg("get message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get message"})
		return
	}
	if !service.CanView(auth.CurrentUsername(c), msg) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}
	detail, err := h.msgSvc.Detail(msg)
	if err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("get message detail")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": detail})
}

// MarkMessageRead 标记消息已读，只有收件人可以操作。
func (h *Handler) MarkMessageRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	msg, err := h.msgSvc.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such message"})
			return
		}
		log.Error().Err(err).Int("message_id", id).Msg("mark read get")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
		return
	}
	if !service.CanMarkRead(auth.CurrentUsername(c), msg) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}
	receipt, err := h.msgSvc.MarkRead(msg)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such message"})
			return
		}
		log.Error().Err(err).Int("message_id", id).Msg("mark read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": receipt})
}
