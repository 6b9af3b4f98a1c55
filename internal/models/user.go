package models

import "time"

// User — учётная запись для входа в API.
// Пароль хранится только как bcrypt-хэш и наружу не отдаётся.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
}
