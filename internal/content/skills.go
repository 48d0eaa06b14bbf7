package content

import (
	"context"
	"fmt"
	"slices"

	"portfolio/internal/database"
)

// Skill categories accepted by the dashboard.
var SkillCategories = []string{"frontend", "backend", "tools"}

const (
	MinProficiency     = 1
	MaxProficiency     = 100
	DefaultProficiency = 80
)

type SkillInput struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required,oneof=frontend backend tools"`
	IconURL     *string `json:"iconUrl"`
	Proficiency *int    `json:"proficiency" binding:"omitempty,min=1,max=100"`
	Order       *int    `json:"order"`
}

type SkillPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Category    *string `json:"category" binding:"omitempty,oneof=frontend backend tools"`
	IconURL     *string `json:"iconUrl"`
	Proficiency *int    `json:"proficiency" binding:"omitempty,min=1,max=100"`
	Order       *int    `json:"order"`
}

func (p SkillPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "name", p.Name)
	setString(m, "category", p.Category)
	setString(m, "icon_url", p.IconURL)
	setInt(m, "proficiency", p.Proficiency)
	setInt(m, "order", p.Order)
	return m
}

func checkSkill(category *string, proficiency *int) error {
	if category != nil && !slices.Contains(SkillCategories, *category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("must be one of %v", SkillCategories)}
	}
	if proficiency != nil && (*proficiency < MinProficiency || *proficiency > MaxProficiency) {
		return &ValidationError{Field: "proficiency", Reason: fmt.Sprintf("must be between %d and %d", MinProficiency, MaxProficiency)}
	}
	return nil
}

// ListSkills orders by the explicit order field, then category name.
func (r *Repository) ListSkills(ctx context.Context) ([]database.Skill, error) {
	skills := make([]database.Skill, 0)
	err := r.db.WithContext(ctx).
		Order(orderColumn("order", false)).
		Order(orderColumn("category", false)).
		Order(orderColumn("id", false)).
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

func (r *Repository) CreateSkill(ctx context.Context, in SkillInput) (*database.Skill, error) {
	if err := requireFields(requiredField{"name", in.Name}); err != nil {
		return nil, err
	}
	if err := checkSkill(&in.Category, in.Proficiency); err != nil {
		return nil, err
	}
	skill := database.Skill{
		Name:        in.Name,
		Category:    in.Category,
		IconURL:     in.IconURL,
		Proficiency: DefaultProficiency,
	}
	if in.Proficiency != nil {
		skill.Proficiency = *in.Proficiency
	}
	if in.Order != nil {
		skill.Order = *in.Order
	}
	if err := r.db.WithContext(ctx).Create(&skill).Error; err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &skill, nil
}

func (r *Repository) UpdateSkill(ctx context.Context, id uint, patch SkillPatch) (*database.Skill, error) {
	if err := requirePatched(map[string]*string{"name": patch.Name}); err != nil {
		return nil, err
	}
	if err := checkSkill(patch.Category, patch.Proficiency); err != nil {
		return nil, err
	}
	var skill database.Skill
	if err := r.updateByID(ctx, &skill, id, patch.updates()); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *Repository) DeleteSkill(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &database.Skill{}, id)
}
