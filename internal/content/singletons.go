package content

import (
	"context"

	"portfolio/internal/database"
)

// DefaultSystemPrompt seeds ai_config.system_prompt when it is first created.
const DefaultSystemPrompt = "You are a helpful AI assistant that provides feedback on portfolios and career advice."

// IntroductionPatch carries the fields an admin may change on the profile.
// Nil fields are left untouched.
type IntroductionPatch struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=255"`
	Role            *string `json:"role" binding:"omitempty,min=1,max=255"`
	Specialty       *string `json:"specialty"`
	Bio             *string `json:"bio" binding:"omitempty,min=1"`
	DetailedBio     *string `json:"detailedBio"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Location        *string `json:"location"`
}

func (p IntroductionPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "name", p.Name)
	setString(m, "role", p.Role)
	setString(m, "specialty", p.Specialty)
	setString(m, "bio", p.Bio)
	setString(m, "detailed_bio", p.DetailedBio)
	setString(m, "profile_image_url", p.ProfileImageURL)
	setString(m, "email", p.Email)
	setString(m, "phone", p.Phone)
	setString(m, "location", p.Location)
	return m
}

// GetIntroduction returns the profile or ErrNotFound.
func (r *Repository) GetIntroduction(ctx context.Context) (*database.Introduction, error) {
	var intro database.Introduction
	if err := r.getSingleton(ctx, &intro); err != nil {
		return nil, err
	}
	return &intro, nil
}

// UpdateIntroduction creates the profile on first write and merges afterwards.
func (r *Repository) UpdateIntroduction(ctx context.Context, patch IntroductionPatch) (*database.Introduction, error) {
	defaults := map[string]any{"name": "", "role": "", "bio": ""}
	if err := r.upsertSingleton(ctx, &database.Introduction{}, defaults, patch.updates()); err != nil {
		return nil, err
	}
	return r.GetIntroduction(ctx)
}

type SocialsPatch struct {
	Github    *string `json:"github"`
	Linkedin  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
}

func (p SocialsPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "github", p.Github)
	setString(m, "linkedin", p.Linkedin)
	setString(m, "twitter", p.Twitter)
	setString(m, "instagram", p.Instagram)
	return m
}

func (r *Repository) GetSocials(ctx context.Context) (*database.Socials, error) {
	var socials database.Socials
	if err := r.getSingleton(ctx, &socials); err != nil {
		return nil, err
	}
	return &socials, nil
}

func (r *Repository) UpdateSocials(ctx context.Context, patch SocialsPatch) (*database.Socials, error) {
	if err := r.upsertSingleton(ctx, &database.Socials{}, nil, patch.updates()); err != nil {
		return nil, err
	}
	return r.GetSocials(ctx)
}

type AiConfigPatch struct {
	SystemPrompt *string `json:"systemPrompt" binding:"omitempty,min=1"`
	APIKey       *string `json:"apiKey"`
	Enabled      *bool   `json:"enabled"`
}

func (p AiConfigPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "system_prompt", p.SystemPrompt)
	setString(m, "api_key", p.APIKey)
	setBool(m, "enabled", p.Enabled)
	return m
}

func (r *Repository) GetAiConfig(ctx context.Context) (*database.AiConfig, error) {
	var cfg database.AiConfig
	if err := r.getSingleton(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *Repository) UpdateAiConfig(ctx context.Context, patch AiConfigPatch) (*database.AiConfig, error) {
	defaults := map[string]any{"system_prompt": DefaultSystemPrompt, "enabled": true}
	if err := r.upsertSingleton(ctx, &database.AiConfig{}, defaults, patch.updates()); err != nil {
		return nil, err
	}
	return r.GetAiConfig(ctx)
}
