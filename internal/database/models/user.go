package models

import "net/url"

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Avatar       string `json:"avatar"`
	Role         string `gorm:"default:'user'" json:"role"` // user, admin
}

func (User) TableName() string {
	return "users"
}

// DefaultAvatar builds the placeholder avatar URI for a display name.
func DefaultAvatar(name string) string {
	return "https://ui-avatars.com/api/?background=6366f1&color=fff&name=" + url.QueryEscape(name)
}
