package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/auth"
	"portfolio/internal/database"
)

// AuthHandler 处理管理员登录。
type AuthHandler struct {
	users  *auth.UserStore
	tokens *auth.TokenService
}

func NewAuthHandler(users *auth.UserStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func newUserResponse(u *database.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, IsAdmin: u.IsAdmin}
}

// Login 校验邮箱与口令并签发访问令牌。未知邮箱与错误口令返回相同响应。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	logger := middleware.LoggerFromContext(c)
	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			Unauthorized(c, "invalid credentials")
			return
		}
		logger.Error("login lookup failed", slog.Any("error", err))
		Internal(c, "login failed")
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Info("login rejected", slog.Uint64("user_id", uint64(user.ID)))
		Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
	if err != nil {
		logger.Error("issue token failed", slog.Any("error", err))
		Internal(c, "login failed")
		return
	}

	logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// Me 返回当前令牌对应的用户。
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		Unauthorized(c, "access token required")
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), id.ID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			Unauthorized(c, "invalid token")
			return
		}
		Internal(c, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
