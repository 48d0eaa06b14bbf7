package content

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/database"
)

func newTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "content.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db), db
}

func ptr[T any](v T) *T { return &v }

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestIntroductionUpsertKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	_, err := repo.GetIntroduction(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := repo.UpdateIntroduction(ctx, IntroductionPatch{
		Name: ptr("Ada"),
		Role: ptr("Engineer"),
		Bio:  ptr("Builds things."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)
	assert.Nil(t, first.Location)
	assert.EqualValues(t, 1, countRows(t, db, &database.Introduction{}))

	second, err := repo.UpdateIntroduction(ctx, IntroductionPatch{Location: ptr("London")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.Name, "omitted fields are untouched")
	require.NotNil(t, second.Location)
	assert.Equal(t, "London", *second.Location)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	assert.EqualValues(t, 1, countRows(t, db, &database.Introduction{}))
}

func TestSocialsAndAiConfigDefaults(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	socials, err := repo.UpdateSocials(ctx, SocialsPatch{Github: ptr("https://github.com/ada")})
	require.NoError(t, err)
	assert.Nil(t, socials.Twitter)
	_, err = repo.UpdateSocials(ctx, SocialsPatch{Twitter: ptr("https://x.com/ada")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, db, &database.Socials{}))

	cfg, err := repo.UpdateAiConfig(ctx, AiConfigPatch{APIKey: ptr("k-1")})
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.True(t, cfg.Enabled)

	cfg, err = repo.UpdateAiConfig(ctx, AiConfigPatch{Enabled: ptr(false)})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	require.NotNil(t, cfg.APIKey)
	assert.Equal(t, "k-1", *cfg.APIKey)
}

func TestListSkillsOrdersByOrderThenCategory(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	inputs := []SkillInput{
		{Name: "Docker", Category: "tools", Order: ptr(1)},
		{Name: "Go", Category: "backend", Order: ptr(1)},
		{Name: "React", Category: "frontend", Order: ptr(0)},
		{Name: "Git", Category: "tools", Order: ptr(0)},
		{Name: "CSS", Category: "frontend", Order: ptr(1)},
	}
	for _, in := range inputs {
		_, err := repo.CreateSkill(ctx, in)
		require.NoError(t, err)
	}

	skills, err := repo.ListSkills(ctx)
	require.NoError(t, err)

	var got []string
	for _, s := range skills {
		got = append(got, s.Name)
	}
	assert.Equal(t, []string{"React", "Git", "Go", "CSS", "Docker"}, got)
}

func TestCreateSkillDefaultsAndGuards(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	skill, err := repo.CreateSkill(ctx, SkillInput{Name: "Go", Category: "backend"})
	require.NoError(t, err)
	assert.Equal(t, DefaultProficiency, skill.Proficiency)
	assert.Equal(t, 0, skill.Order)
	assert.False(t, skill.CreatedAt.IsZero())

	_, err = repo.CreateSkill(ctx, SkillInput{Name: "Rust", Category: "backend", Proficiency: ptr(150)})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "proficiency", verr.Field)

	_, err = repo.CreateSkill(ctx, SkillInput{Name: "Zig", Category: "systems"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "category", verr.Field)

	_, err = repo.UpdateSkill(ctx, skill.ID, SkillPatch{Proficiency: ptr(0)})
	require.True(t, errors.As(err, &verr))

	assert.EqualValues(t, 1, countRows(t, db, &database.Skill{}))
}

func TestUpdateSkillPartialAndMissing(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	skill, err := repo.CreateSkill(ctx, SkillInput{Name: "Go", Category: "backend", Proficiency: ptr(70)})
	require.NoError(t, err)

	updated, err := repo.UpdateSkill(ctx, skill.ID, SkillPatch{Proficiency: ptr(95), Order: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Go", updated.Name)
	assert.Equal(t, 95, updated.Proficiency)
	assert.Equal(t, 3, updated.Order)

	same, err := repo.UpdateSkill(ctx, skill.ID, SkillPatch{})
	require.NoError(t, err)
	assert.Equal(t, 95, same.Proficiency)

	_, err = repo.UpdateSkill(ctx, skill.ID+42, SkillPatch{Name: ptr("ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.UpdateSkill(ctx, skill.ID+42, SkillPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSkillUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	skill, err := repo.CreateSkill(ctx, SkillInput{Name: "Go", Category: "backend"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSkill(ctx, skill.ID+999))
	assert.EqualValues(t, 1, countRows(t, db, &database.Skill{}))

	require.NoError(t, repo.DeleteSkill(ctx, skill.ID))
	require.NoError(t, repo.DeleteSkill(ctx, skill.ID))
	assert.EqualValues(t, 0, countRows(t, db, &database.Skill{}))
}

func TestProjectsTechnologiesAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	empty, err := repo.CreateProject(ctx, ProjectInput{Title: "Bare", Description: "no tech"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Technologies)
	assert.Len(t, empty.Technologies, 0)

	_, err = repo.CreateProject(ctx, ProjectInput{Title: "Older", Description: "d", Technologies: []string{"Go", "Postgres"}, Order: ptr(1)})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = repo.CreateProject(ctx, ProjectInput{Title: "Newer", Description: "d", Order: ptr(1), Featured: ptr(true)})
	require.NoError(t, err)

	projects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Bare", projects[0].Title)
	assert.Equal(t, "Newer", projects[1].Title)
	assert.True(t, projects[1].Featured)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(projects[2].Technologies))

	techs := []string{"Go"}
	updated, err := repo.UpdateProject(ctx, projects[2].ID, ProjectPatch{Technologies: &techs})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, []string(updated.Technologies))

	_, err = repo.UpdateProject(ctx, 9999, ProjectPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAchievementsDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	a, err := repo.CreateAchievement(ctx, AchievementInput{Title: "Cert", Issuer: "CNCF", Date: "Spring 2024"})
	require.NoError(t, err)
	assert.Equal(t, DefaultIconType, a.IconType)
	assert.Equal(t, "Spring 2024", a.Date)

	_, err = repo.CreateAchievement(ctx, AchievementInput{Title: "x", Issuer: "y", Date: "z", IconType: ptr("ribbon")})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	updated, err := repo.UpdateAchievement(ctx, a.ID, AchievementPatch{IconType: ptr("medal")})
	require.NoError(t, err)
	assert.Equal(t, "medal", updated.IconType)

	list, err := repo.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteAchievement(ctx, a.ID))
	list, err = repo.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContactMessagesLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first, err := repo.CreateContactMessage(ctx, ContactInput{Name: "A", Email: "a@example.com", Subject: "Hi", Message: "first"})
	require.NoError(t, err)
	assert.False(t, first.IsRead)
	second, err := repo.CreateContactMessage(ctx, ContactInput{Name: "B", Email: "b@example.com", Subject: "Yo", Message: "second"})
	require.NoError(t, err)

	list, err := repo.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	read, err := repo.MarkMessageRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.Equal(t, "first", read.Message)
	assert.True(t, read.CreatedAt.Equal(first.CreatedAt))

	again, err := repo.MarkMessageRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	_, err = repo.MarkMessageRead(ctx, 777)
	assert.ErrorIs(t, err, ErrNotFound)

	unread, err = repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestSeedFromYAML(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	doc := `
introduction:
  name: Ada Lovelace
  role: Engineer
  bio: Writes programs.
  profileImageUrl: https://example.com/ada.png
socials:
  github: https://github.com/ada
skills:
  - name: Go
    category: backend
    proficiency: 90
    order: 1
  - name: Git
    category: tools
projects:
  - title: Engine
    description: Analytical
    technologies: [Brass, Steam]
    featured: true
achievements:
  - title: First Program
    issuer: Royal Society
    date: "1843"
    iconType: award
`
	data, err := ParseSeed(strings.NewReader(doc))
	require.NoError(t, err)

	res, err := repo.Seed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Singletons: 2, Skills: 2, Projects: 1, Achievements: 1}, res)

	intro, err := repo.GetIntroduction(ctx)
	require.NoError(t, err)
	require.NotNil(t, intro.ProfileImageURL)
	assert.Equal(t, "https://example.com/ada.png", *intro.ProfileImageURL)

	projects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brass", "Steam"}, []string(projects[0].Technologies))

	_, err = ParseSeed(strings.NewReader("unknown: 1\n"))
	assert.Error(t, err)

	bad, err := ParseSeed(strings.NewReader("skills:\n  - name: X\n    category: backend\n    proficiency: 150\n"))
	require.NoError(t, err)
	_, err = repo.Seed(ctx, bad)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSeedRejectsBlankRequiredFields(t *testing.T) {
	ctx := context.Background()

	docs := map[string]string{
		"skill name":        "skills:\n  - category: tools\n",
		"project title":     "projects:\n  - technologies: [go]\n",
		"achievement title": "achievements:\n  - iconType: medal\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			repo, db := newTestRepo(t)
			data, err := ParseSeed(strings.NewReader(doc))
			require.NoError(t, err)

			res, err := repo.Seed(ctx, data)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, SeedResult{}, res)

			assert.Zero(t, countRows(t, db, &database.Skill{}))
			assert.Zero(t, countRows(t, db, &database.Project{}))
			assert.Zero(t, countRows(t, db, &database.Achievement{}))
		})
	}
}

func TestRequiredFieldsOnCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	var verr *ValidationError

	_, err := repo.CreateSkill(ctx, SkillInput{Name: "  ", Category: "backend"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = repo.CreateProject(ctx, ProjectInput{Title: "Engine"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	_, err = repo.CreateAchievement(ctx, AchievementInput{Title: "Cert", Issuer: "CNCF"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)

	skill, err := repo.CreateSkill(ctx, SkillInput{Name: "Go", Category: "backend"})
	require.NoError(t, err)
	_, err = repo.UpdateSkill(ctx, skill.ID, SkillPatch{Name: ptr("")})
	require.ErrorAs(t, err, &verr)

	got, err := repo.UpdateSkill(ctx, skill.ID, SkillPatch{Order: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)
}
