package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"portfolio/internal/api/middleware"
	"portfolio/internal/content"
	"portfolio/internal/metrics"
	"portfolio/internal/notify"
	"portfolio/internal/tasks"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ContactHandler 保存联系表单，并异步投递通知邮件与自动回复。
type ContactHandler struct {
	repo     *content.Repository
	queue    TaskEnqueuer
	notifier notify.Publisher
}

func NewContactHandler(repo *content.Repository, queue TaskEnqueuer, notifier notify.Publisher) *ContactHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ContactHandler{repo: repo, queue: queue, notifier: notifier}
}

// Submit 持久化成功即返回 200；入队或推送失败只记录日志。
func (h *ContactHandler) Submit(c *gin.Context) {
	var in content.ContactInput
	if !bindJSON(c, &in) {
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	msg, err := h.repo.CreateContactMessage(ctx, in)
	if err != nil {
		repoError(c, err, "contact message")
		return
	}
	metrics.ContactReceived()
	logger = logger.With(slog.Uint64("contact_id", uint64(msg.ID)))

	correlationID := middleware.GetCorrelationID(c)
	payload := tasks.ContactEmailPayload{
		MessageID:     msg.ID,
		Name:          msg.Name,
		Email:         msg.Email,
		Subject:       msg.Subject,
		Message:       msg.Message,
		CorrelationID: correlationID,
	}
	h.enqueue(ctx, logger, tasks.TypeContactNotify, tasks.NewContactNotifyTask, payload)
	h.enqueue(ctx, logger, tasks.TypeContactAutoReply, tasks.NewContactAutoReplyTask, payload)

	if err := h.notifier.Publish(ctx, notify.Event{
		Type:          notify.TypeContactCreated,
		ContactID:     msg.ID,
		Status:        notify.StatusOK,
		CorrelationID: correlationID,
	}); err != nil {
		logger.Warn("publish contact notification failed", slog.Any("error", err))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message sent successfully",
		"id":      msg.ID,
	})
}

func (h *ContactHandler) enqueue(
	ctx context.Context,
	logger *slog.Logger,
	taskType string,
	build func(tasks.ContactEmailPayload) (*asynq.Task, error),
	payload tasks.ContactEmailPayload,
) {
	if h.queue == nil {
		return
	}
	task, err := build(payload)
	if err == nil {
		_, err = h.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		metrics.EmailEnqueueFailed(taskType)
		logger.Error("enqueue email task failed",
			slog.String("task_type", taskType),
			slog.Any("error", err),
		)
		return
	}
	logger.Info("email task enqueued", slog.String("task_type", taskType))
}
