package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SeedData is the document accepted by `admin seed`. Keys use the same
// camelCase names as the HTTP API.
type SeedData struct {
	Introduction *IntroductionPatch `json:"introduction"`
	Socials      *SocialsPatch      `json:"socials"`
	AiConfig     *AiConfigPatch     `json:"aiConfig"`
	Skills       []SkillInput       `json:"skills"`
	Projects     []ProjectInput     `json:"projects"`
	Achievements []AchievementInput `json:"achievements"`
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Singletons   int
	Skills       int
	Projects     int
	Achievements int
}

// ParseSeed decodes a YAML (or JSON) seed document, rejecting unknown keys.
// The YAML tree is re-encoded as JSON so the API field names apply.
func ParseSeed(r io.Reader) (SeedData, error) {
	var tree any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		return SeedData{}, fmt.Errorf("decode seed yaml: %w", err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return SeedData{}, fmt.Errorf("re-encode seed: %w", err)
	}

	var data SeedData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return SeedData{}, fmt.Errorf("decode seed: %w", err)
	}
	return data, nil
}

// Seed writes the document through the regular repository operations, so
// the same validation applies as for dashboard edits. Collections are
// appended, not replaced.
func (r *Repository) Seed(ctx context.Context, data SeedData) (SeedResult, error) {
	var res SeedResult
	if data.Introduction != nil {
		if _, err := r.UpdateIntroduction(ctx, *data.Introduction); err != nil {
			return res, fmt.Errorf("seed introduction: %w", err)
		}
		res.Singletons++
	}
	if data.Socials != nil {
		if _, err := r.UpdateSocials(ctx, *data.Socials); err != nil {
			return res, fmt.Errorf("seed socials: %w", err)
		}
		res.Singletons++
	}
	if data.AiConfig != nil {
		if _, err := r.UpdateAiConfig(ctx, *data.AiConfig); err != nil {
			return res, fmt.Errorf("seed ai config: %w", err)
		}
		res.Singletons++
	}
	for i, s := range data.Skills {
		if _, err := r.CreateSkill(ctx, s); err != nil {
			return res, fmt.Errorf("seed skill %d (%s): %w", i, s.Name, err)
		}
		res.Skills++
	}
	for i, p := range data.Projects {
		if _, err := r.CreateProject(ctx, p); err != nil {
			return res, fmt.Errorf("seed project %d (%s): %w", i, p.Title, err)
		}
		res.Projects++
	}
	for i, a := range data.Achievements {
		if _, err := r.CreateAchievement(ctx, a); err != nil {
			return res, fmt.Errorf("seed achievement %d (%s): %w", i, a.Title, err)
		}
		res.Achievements++
	}
	return res, nil
}
