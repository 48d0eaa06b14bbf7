package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"portfolio/internal/database"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserStore is the credential store backed by the users table.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateLookupErr(err)
	}
	return &user, nil
}

// FindByEmail matches case-insensitively on the trimmed address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translateLookupErr(err)
	}
	return &user, nil
}

// CreateUser hashes the password and stores a new credential.
func (s *UserStore) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*database.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&database.User{}).
		Where("username = ? OR LOWER(email) = ?", username, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := database.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// 预检查与插入之间可能有并发创建，唯一索引冲突同样视为已存在。
		if isDuplicateKey(s.db, err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// isDuplicateKey 兼容未开启 TranslateError 的连接，手动交给方言翻译一次。
func isDuplicateKey(db *gorm.DB, err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if t, ok := db.Dialector.(gorm.ErrorTranslator); ok {
		return errors.Is(t.Translate(err), gorm.ErrDuplicatedKey)
	}
	return false
}

func translateLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("query user: %w", err)
}
