package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/content"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func Unauthorized(c *gin.Context, msg string) { Error(c, http.StatusUnauthorized, msg) }
func BadRequest(c *gin.Context, msg string)   { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)     { Error(c, http.StatusNotFound, msg) }
func Internal(c *gin.Context, msg string)     { Error(c, http.StatusInternalServerError, msg) }

// Message 返回 {"message": msg}。
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// parseID 解析路径中的 :id，非正整数返回 false。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时直接写 400。
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, err.Error())
		return false
	}
	return true
}

// repoError 把仓储层错误映射成 HTTP 状态码；what 用于 404 与 500 的提示语。
func repoError(c *gin.Context, err error, what string) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Error())
	case errors.Is(err, content.ErrNotFound):
		NotFound(c, what+" not found")
	default:
		middleware.LoggerFromContext(c).Error("repository call failed",
			slog.String("entity", what),
			slog.Any("error", err),
		)
		Internal(c, "failed to process "+what)
	}
}
