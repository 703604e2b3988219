package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole controls access level
type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleAdmin   UserRole = "admin"
	RolePremium UserRole = "premium"
)

// StringList stores a string slice as a JSON column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

type User struct {
	ID       string `gorm:"primarykey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	FullName string `json:"full_name,omitempty"`

	Password string   `gorm:"not null" json:"-"`
	IsActive bool     `gorm:"default:true;index" json:"is_active"`
	Role     UserRole `gorm:"default:'user'" json:"role"`

	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`

	// Usage counters
	DrawingsCount         int     `gorm:"default:0" json:"drawings_count"`
	MusicGenerationsCount int     `gorm:"default:0" json:"music_generations_count"`
	TotalPlayTime         float64 `gorm:"default:0" json:"total_play_time"`

	PreferredGenres      StringList `gorm:"type:jsonb" json:"preferred_genres,omitempty"`
	PreferredInstruments StringList `gorm:"type:jsonb" json:"preferred_instruments,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// HashPassword hashes the user's password using bcrypt
func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
