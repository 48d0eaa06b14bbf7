package content

import (
	"context"
	"fmt"
	"slices"

	"portfolio/internal/database"
)

var IconTypes = []string{"trophy", "certificate", "award", "medal"}

const DefaultIconType = "trophy"

type AchievementInput struct {
	Title          string  `json:"title" binding:"required"`
	Issuer         string  `json:"issuer" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	CertificateURL *string `json:"certificateUrl"`
	Description    *string `json:"description"`
	IconType       *string `json:"iconType" binding:"omitempty,oneof=trophy certificate award medal"`
	Order          *int    `json:"order"`
}

type AchievementPatch struct {
	Title          *string `json:"title" binding:"omitempty,min=1"`
	Issuer         *string `json:"issuer" binding:"omitempty,min=1"`
	Date           *string `json:"date" binding:"omitempty,min=1"`
	CertificateURL *string `json:"certificateUrl"`
	Description    *string `json:"description"`
	IconType       *string `json:"iconType" binding:"omitempty,oneof=trophy certificate award medal"`
	Order          *int    `json:"order"`
}

func (p AchievementPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "title", p.Title)
	setString(m, "issuer", p.Issuer)
	setString(m, "date", p.Date)
	setString(m, "certificate_url", p.CertificateURL)
	setString(m, "description", p.Description)
	setString(m, "icon_type", p.IconType)
	setInt(m, "order", p.Order)
	return m
}

func checkIconType(iconType *string) error {
	if iconType != nil && !slices.Contains(IconTypes, *iconType) {
		return &ValidationError{Field: "iconType", Reason: fmt.Sprintf("must be one of %v", IconTypes)}
	}
	return nil
}

func (r *Repository) ListAchievements(ctx context.Context) ([]database.Achievement, error) {
	achievements := make([]database.Achievement, 0)
	err := r.db.WithContext(ctx).
		Order(orderColumn("order", false)).
		Order(orderColumn("created_at", true)).
		Order(orderColumn("id", true)).
		Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

func (r *Repository) CreateAchievement(ctx context.Context, in AchievementInput) (*database.Achievement, error) {
	if err := requireFields(
		requiredField{"title", in.Title},
		requiredField{"issuer", in.Issuer},
		requiredField{"date", in.Date},
	); err != nil {
		return nil, err
	}
	if err := checkIconType(in.IconType); err != nil {
		return nil, err
	}
	achievement := database.Achievement{
		Title:          in.Title,
		Issuer:         in.Issuer,
		Date:           in.Date,
		CertificateURL: in.CertificateURL,
		Description:    in.Description,
		IconType:       DefaultIconType,
	}
	if in.IconType != nil {
		achievement.IconType = *in.IconType
	}
	if in.Order != nil {
		achievement.Order = *in.Order
	}
	if err := r.db.WithContext(ctx).Create(&achievement).Error; err != nil {
		return nil, fmt.Errorf("create achievement: %w", err)
	}
	return &achievement, nil
}

func (r *Repository) UpdateAchievement(ctx context.Context, id uint, patch AchievementPatch) (*database.Achievement, error) {
	if err := requirePatched(map[string]*string{
		"title":  patch.Title,
		"issuer": patch.Issuer,
		"date":   patch.Date,
	}); err != nil {
		return nil, err
	}
	if err := checkIconType(patch.IconType); err != nil {
		return nil, err
	}
	var achievement database.Achievement
	if err := r.updateByID(ctx, &achievement, id, patch.updates()); err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *Repository) DeleteAchievement(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &database.Achievement{}, id)
}
