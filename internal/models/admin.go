package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Admin struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	Email        string `json:"email" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// SetPassword hashes the plaintext password with bcrypt and stores the digest.
func (a *Admin) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// ComparePassword reports whether plain matches the stored bcrypt digest.
func (a *Admin) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

// BeforeSave guards against accidentally persisting a plaintext password.
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	if a.PasswordHash == "" {
		return gorm.ErrInvalidData
	}
	return nil
}
