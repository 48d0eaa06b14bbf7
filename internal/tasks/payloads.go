package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeContactNotify    = "email:contact_notify"
	TypeContactAutoReply = "email:contact_auto_reply"
)

// maxEmailRetry 邮件投递失败后的最大重试次数。
const maxEmailRetry = 3

// ContactEmailPayload 携带渲染两封联系邮件所需的全部字段，
// worker 无需回查数据库。
type ContactEmailPayload struct {
	MessageID     uint   `json:"message_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

// NewContactNotifyTask 构造发送给站长的新消息通知任务。
func NewContactNotifyTask(p ContactEmailPayload) (*asynq.Task, error) {
	return newEmailTask(TypeContactNotify, p)
}

// NewContactAutoReplyTask 构造发给访客的自动回复任务。
func NewContactAutoReplyTask(p ContactEmailPayload) (*asynq.Task, error) {
	return newEmailTask(TypeContactAutoReply, p)
}

func newEmailTask(typename string, p ContactEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, payload, asynq.MaxRetry(maxEmailRetry)), nil
}
