package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"portfolio/internal/errcode"
	"portfolio/internal/mail"
	"portfolio/internal/notify"
	"portfolio/internal/tasks"
)

// errOwnerMissing 未配置站长邮箱时重试没有意义。
var errOwnerMissing = errors.New("owner email is not configured")

// EmailTaskHandler 负责消费联系表单的两类邮件任务。
type EmailTaskHandler struct {
	sender   mail.Sender
	notifier notify.Publisher
	logger   *slog.Logger
	from     string
	owner    mail.Owner
}

// NewEmailTaskHandler 创建任务处理器。from 为空时退回站长邮箱。
func NewEmailTaskHandler(sender mail.Sender, notifier notify.Publisher, logger *slog.Logger, from string, owner mail.Owner) *EmailTaskHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	from = strings.TrimSpace(from)
	if from == "" {
		from = owner.Email
	}
	return &EmailTaskHandler{sender: sender, notifier: notifier, logger: logger, from: from, owner: owner}
}

// ProcessTask 实现 asynq.Handler。
func (h *EmailTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger.With(slog.String("task_type", t.Type()))

	var payload tasks.ContactEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("contact_id", uint64(payload.MessageID)),
	)

	defer func() {
		ev := notify.Event{
			Type:          notify.TypeEmailDelivered,
			ContactID:     payload.MessageID,
			TaskType:      t.Type(),
			Status:        notify.StatusOK,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.OK,
		}
		if retErr != nil {
			// 只在不会再重试时通知，避免同一封邮件刷屏。
			if !errors.Is(retErr, asynq.SkipRetry) && !isFinalAsynqAttempt(ctx) {
				return
			}
			ev.Type = notify.TypeEmailFailed
			ev.Status = notify.StatusFailed
			ev.ErrorCode = errcode.SystemError
			if errors.Is(retErr, errOwnerMissing) {
				ev.ErrorCode = errcode.ResourceMissing
			}
			ev.ErrorMessage = strings.TrimSpace(retErr.Error())
		}
		if err := h.notifier.Publish(ctx, ev); err != nil {
			log.Error("publish email notification failed", slog.Any("error", err))
		}
	}()

	msg, err := h.render(t.Type(), payload)
	if err != nil {
		log.Error("render email failed", slog.Any("error", err))
		return err
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		log.Error("send email failed", slog.Any("error", err))
		return err
	}

	log.Info("email sent", slog.String("to", strings.Join(msg.To, ",")))
	return nil
}

func (h *EmailTaskHandler) render(taskType string, p tasks.ContactEmailPayload) (mail.Message, error) {
	contact := mail.Contact{Name: p.Name, Email: p.Email, Subject: p.Subject, Message: p.Message}
	switch taskType {
	case tasks.TypeContactNotify:
		if strings.TrimSpace(h.owner.Email) == "" {
			return mail.Message{}, fmt.Errorf("%w: %w", errOwnerMissing, asynq.SkipRetry)
		}
		return mail.ContactNotification(h.from, h.owner, contact)
	case tasks.TypeContactAutoReply:
		return mail.AutoReply(h.from, h.owner, contact)
	default:
		return mail.Message{}, fmt.Errorf("unexpected task type %q: %w", taskType, asynq.SkipRetry)
	}
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
