package content

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"portfolio/internal/database"
)

type ProjectInput struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	ImageURL     *string  `json:"imageUrl"`
	Technologies []string `json:"technologies"`
	GithubURL    *string  `json:"githubUrl"`
	LiveURL      *string  `json:"liveUrl"`
	Featured     *bool    `json:"featured"`
	Order        *int     `json:"order"`
}

type ProjectPatch struct {
	Title        *string   `json:"title" binding:"omitempty,min=1"`
	Description  *string   `json:"description" binding:"omitempty,min=1"`
	ImageURL     *string   `json:"imageUrl"`
	Technologies *[]string `json:"technologies"`
	GithubURL    *string   `json:"githubUrl"`
	LiveURL      *string   `json:"liveUrl"`
	Featured     *bool     `json:"featured"`
	Order        *int      `json:"order"`
}

func (p ProjectPatch) updates() map[string]any {
	m := map[string]any{}
	setString(m, "title", p.Title)
	setString(m, "description", p.Description)
	setString(m, "image_url", p.ImageURL)
	if p.Technologies != nil {
		m["technologies"] = technologies(*p.Technologies)
	}
	setString(m, "github_url", p.GithubURL)
	setString(m, "live_url", p.LiveURL)
	setBool(m, "featured", p.Featured)
	setInt(m, "order", p.Order)
	return m
}

// technologies never stores null so clients always read an array.
func technologies(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}

// ListProjects orders by the explicit order field, newest first on ties.
func (r *Repository) ListProjects(ctx context.Context) ([]database.Project, error) {
	projects := make([]database.Project, 0)
	err := r.db.WithContext(ctx).
		Order(orderColumn("order", false)).
		Order(orderColumn("created_at", true)).
		Order(orderColumn("id", true)).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *Repository) CreateProject(ctx context.Context, in ProjectInput) (*database.Project, error) {
	if err := requireFields(
		requiredField{"title", in.Title},
		requiredField{"description", in.Description},
	); err != nil {
		return nil, err
	}
	project := database.Project{
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Technologies: technologies(in.Technologies),
		GithubURL:    in.GithubURL,
		LiveURL:      in.LiveURL,
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}
	if in.Order != nil {
		project.Order = *in.Order
	}
	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

func (r *Repository) UpdateProject(ctx context.Context, id uint, patch ProjectPatch) (*database.Project, error) {
	if err := requirePatched(map[string]*string{"title": patch.Title, "description": patch.Description}); err != nil {
		return nil, err
	}
	var project database.Project
	if err := r.updateByID(ctx, &project, id, patch.updates()); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &database.Project{}, id)
}
