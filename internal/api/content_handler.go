package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/content"
)

// ContentHandler 暴露作品集内容的公开读取与管理端写入。
type ContentHandler struct {
	repo *content.Repository
}

func NewContentHandler(repo *content.Repository) *ContentHandler {
	return &ContentHandler{repo: repo}
}

// singleton 处理单例读取：不存在时返回 {}，前端据此渲染空状态。
func singleton[T any](what string, get func(context.Context) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := get(c.Request.Context())
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{})
				return
			}
			repoError(c, err, what)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func list[T any](what string, fetch func(context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fetch(c.Request.Context())
		if err != nil {
			repoError(c, err, what)
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func upsert[P, T any](what string, update func(context.Context, P) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch P
		if !bindJSON(c, &patch) {
			return
		}
		v, err := update(c.Request.Context(), patch)
		if err != nil {
			repoError(c, err, what)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func create[In, T any](what string, insert func(context.Context, In) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if !bindJSON(c, &in) {
			return
		}
		v, err := insert(c.Request.Context(), in)
		if err != nil {
			repoError(c, err, what)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func update[P, T any](what string, apply func(context.Context, uint, P) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			BadRequest(c, "invalid "+what+" id")
			return
		}
		var patch P
		if !bindJSON(c, &patch) {
			return
		}
		v, err := apply(c.Request.Context(), id, patch)
		if err != nil {
			repoError(c, err, what)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// remove 幂等删除：未知 id 同样返回成功。
func remove(what, label string, del func(context.Context, uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			BadRequest(c, "invalid "+what+" id")
			return
		}
		if err := del(c.Request.Context(), id); err != nil {
			repoError(c, err, what)
			return
		}
		Message(c, http.StatusOK, label+" deleted successfully")
	}
}

func (h *ContentHandler) GetIntroduction() gin.HandlerFunc {
	return singleton("introduction", h.repo.GetIntroduction)
}

func (h *ContentHandler) GetSocials() gin.HandlerFunc {
	return singleton("socials", h.repo.GetSocials)
}

func (h *ContentHandler) GetAiConfig() gin.HandlerFunc {
	return singleton("ai config", h.repo.GetAiConfig)
}

func (h *ContentHandler) ListSkills() gin.HandlerFunc { return list("skills", h.repo.ListSkills) }

func (h *ContentHandler) ListProjects() gin.HandlerFunc { return list("projects", h.repo.ListProjects) }

func (h *ContentHandler) ListAchievements() gin.HandlerFunc {
	return list("achievements", h.repo.ListAchievements)
}

func (h *ContentHandler) ListContactMessages() gin.HandlerFunc {
	return list("contact messages", h.repo.ListContactMessages)
}

func (h *ContentHandler) UpdateIntroduction() gin.HandlerFunc {
	return upsert("introduction", h.repo.UpdateIntroduction)
}

func (h *ContentHandler) UpdateSocials() gin.HandlerFunc {
	return upsert("socials", h.repo.UpdateSocials)
}

func (h *ContentHandler) UpdateAiConfig() gin.HandlerFunc {
	return upsert("ai config", h.repo.UpdateAiConfig)
}

func (h *ContentHandler) CreateSkill() gin.HandlerFunc { return create("skill", h.repo.CreateSkill) }

func (h *ContentHandler) UpdateSkill() gin.HandlerFunc { return update("skill", h.repo.UpdateSkill) }

func (h *ContentHandler) DeleteSkill() gin.HandlerFunc {
	return remove("skill", "Skill", h.repo.DeleteSkill)
}

func (h *ContentHandler) CreateProject() gin.HandlerFunc {
	return create("project", h.repo.CreateProject)
}

func (h *ContentHandler) UpdateProject() gin.HandlerFunc {
	return update("project", h.repo.UpdateProject)
}

func (h *ContentHandler) DeleteProject() gin.HandlerFunc {
	return remove("project", "Project", h.repo.DeleteProject)
}

func (h *ContentHandler) CreateAchievement() gin.HandlerFunc {
	return create("achievement", h.repo.CreateAchievement)
}

func (h *ContentHandler) UpdateAchievement() gin.HandlerFunc {
	return update("achievement", h.repo.UpdateAchievement)
}

func (h *ContentHandler) DeleteAchievement() gin.HandlerFunc {
	return remove("achievement", "Achievement", h.repo.DeleteAchievement)
}

// MarkMessageRead 只翻转已读标记，请求体被忽略。
func (h *ContentHandler) MarkMessageRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		BadRequest(c, "invalid message id")
		return
	}
	msg, err := h.repo.MarkMessageRead(c.Request.Context(), id)
	if err != nil {
		repoError(c, err, "message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *ContentHandler) UnreadCount(c *gin.Context) {
	n, err := h.repo.CountUnread(c.Request.Context())
	if err != nil {
		repoError(c, err, "contact messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
