// Package content owns persistence for every portfolio entity: the singleton
// profile records and the ordered collections edited from the dashboard.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio/internal/database"
)

// ErrNotFound is returned when a row addressed by id (or a singleton) is absent.
var ErrNotFound = errors.New("not found")

// ValidationError reports a value the storage layer refuses to persist.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Repository is the single entry point for content reads and writes.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// upsertSingleton inserts the fixed singleton row, or applies updates to it
// when it already exists, in one statement.
func (r *Repository) upsertSingleton(ctx context.Context, model any, defaults, updates map[string]any) error {
	now := r.now()
	values := make(map[string]any, len(defaults)+len(updates)+2)
	for k, v := range defaults {
		values[k] = v
	}
	for k, v := range updates {
		values[k] = v
	}
	values["id"] = database.SingletonID
	values["updated_at"] = now

	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["updated_at"] = now

	err := r.db.WithContext(ctx).Model(model).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(set),
	}).Create(values).Error
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

func (r *Repository) getSingleton(ctx context.Context, dest any) error {
	err := r.db.WithContext(ctx).First(dest, database.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// updateByID applies a partial update and reloads the row into dest.
func (r *Repository) updateByID(ctx context.Context, dest any, id uint, updates map[string]any) error {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(dest).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
	}
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// deleteByID removes a row; deleting an unknown id is not an error.
func (r *Repository) deleteByID(ctx context.Context, model any, id uint) error {
	if err := r.db.WithContext(ctx).Delete(model, id).Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// requiredField pairs a JSON field name with its value for requireFields.
type requiredField struct {
	name  string
	value string
}

// requireFields rejects blank values. The HTTP layer binds the same rules,
// but seeding and CLI callers reach the repository directly.
func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	return nil
}

// requirePatched rejects a patch that would blank out a required field.
func requirePatched(fields map[string]*string) error {
	for name, v := range fields {
		if v != nil && strings.TrimSpace(*v) == "" {
			return &ValidationError{Field: name, Reason: "must not be empty"}
		}
	}
	return nil
}

func orderColumn(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: desc}
}

// setString copies an optional string into the update map.
func setString(m map[string]any, column string, v *string) {
	if v != nil {
		m[column] = *v
	}
}

func setInt(m map[string]any, column string, v *int) {
	if v != nil {
		m[column] = *v
	}
}

func setBool(m map[string]any, column string, v *bool) {
	if v != nil {
		m[column] = *v
	}
}
