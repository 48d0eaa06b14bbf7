package database

import (
	"time"

	"gorm.io/datatypes"
)

// SingletonID is the fixed primary key of single-row content tables.
const SingletonID uint = 1

// User 表示后台账号。
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"not null" json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// Introduction is the site-wide profile shown in the hero and about sections.
type Introduction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Role            string    `gorm:"not null" json:"role"`
	Specialty       *string   `json:"specialty"`
	Bio             string    `gorm:"type:text;not null" json:"bio"`
	DetailedBio     *string   `gorm:"type:text" json:"detailedBio"`
	ProfileImageURL *string   `gorm:"column:profile_image_url" json:"profileImageUrl"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Location        *string   `json:"location"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Introduction) TableName() string { return "introduction" }

// Socials holds the profile links.
type Socials struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Github    *string   `json:"github"`
	Linkedin  *string   `json:"linkedin"`
	Twitter   *string   `json:"twitter"`
	Instagram *string   `json:"instagram"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Socials) TableName() string { return "socials" }

type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"size:32;not null" json:"category"`
	IconURL     *string   `gorm:"column:icon_url" json:"iconUrl"`
	Proficiency int       `gorm:"not null" json:"proficiency"`
	Order       int       `gorm:"column:order;not null" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Skill) TableName() string { return "skills" }

type Project struct {
	ID           uint                       `gorm:"primaryKey" json:"id"`
	Title        string                     `gorm:"not null" json:"title"`
	Description  string                     `gorm:"type:text;not null" json:"description"`
	ImageURL     *string                    `gorm:"column:image_url" json:"imageUrl"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	GithubURL    *string                    `gorm:"column:github_url" json:"githubUrl"`
	LiveURL      *string                    `gorm:"column:live_url" json:"liveUrl"`
	Featured     bool                       `gorm:"not null" json:"featured"`
	Order        int                        `gorm:"column:order;not null" json:"order"`
	CreatedAt    time.Time                  `json:"createdAt"`
}

func (Project) TableName() string { return "projects" }

// Achievement 的 Date 按原样保存，不做解析。
type Achievement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Issuer         string    `gorm:"not null" json:"issuer"`
	Date           string    `gorm:"not null" json:"date"`
	CertificateURL *string   `gorm:"column:certificate_url" json:"certificateUrl"`
	Description    *string   `gorm:"type:text" json:"description"`
	IconType       string    `gorm:"size:32;not null" json:"iconType"`
	Order          int       `gorm:"column:order;not null" json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Achievement) TableName() string { return "achievements" }

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// AiConfig 控制聊天助手的提示词、密钥与开关。
type AiConfig struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SystemPrompt string    `gorm:"type:text;not null" json:"systemPrompt"`
	APIKey       *string   `gorm:"column:api_key" json:"apiKey"`
	Enabled      bool      `gorm:"not null" json:"enabled"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (AiConfig) TableName() string { return "ai_config" }

// All lists every model handled by AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Introduction{},
		&Socials{},
		&Skill{},
		&Project{},
		&Achievement{},
		&ContactMessage{},
		&AiConfig{},
	}
}
