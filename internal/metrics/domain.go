package metrics

import (
	"errors"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contactMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_messages_total",
		Help:      "收到的联系表单数量。",
	})

	emailEnqueueFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_enqueue_failures_total",
		Help:      "邮件任务入队失败次数（不影响请求结果）。",
	}, []string{"task_type"})

	aiChats = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_chat_requests_total",
		Help:      "AI 对话请求数量，按结果分类。",
	}, []string{"result"})

	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "管理端上传次数，按类型与结果分类。",
	}, []string{"kind", "result"})
)

func ContactReceived() { contactMessages.Inc() }

func EmailEnqueueFailed(taskType string) { emailEnqueueFailures.WithLabelValues(taskType).Inc() }

// AIChat result: ok, disabled, error.
func AIChat(result string) { aiChats.WithLabelValues(result).Inc() }

// Upload kind: image, resume. result: ok, rejected, infected, error.
func Upload(kind, result string) { uploads.WithLabelValues(kind, result).Inc() }

func isSkipRetry(err error) bool {
	return errors.Is(err, asynq.SkipRetry)
}
