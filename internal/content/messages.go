package content

import (
	"context"
	"fmt"

	"portfolio/internal/database"
)

// ContactInput is the allow-list of client supplied contact fields; read
// state and timestamps are always assigned here.
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
}

func (r *Repository) ListContactMessages(ctx context.Context) ([]database.ContactMessage, error) {
	messages := make([]database.ContactMessage, 0)
	err := r.db.WithContext(ctx).
		Order(orderColumn("created_at", true)).
		Order(orderColumn("id", true)).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

func (r *Repository) CreateContactMessage(ctx context.Context, in ContactInput) (*database.ContactMessage, error) {
	msg := database.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IsRead:    false,
		CreatedAt: r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &msg, nil
}

// MarkMessageRead flips is_read only.
func (r *Repository) MarkMessageRead(ctx context.Context, id uint) (*database.ContactMessage, error) {
	var msg database.ContactMessage
	if err := r.updateByID(ctx, &msg, id, map[string]any{"is_read": true}); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountUnread backs the dashboard badge.
func (r *Repository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&database.ContactMessage{}).Where("is_read = ?", false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}
