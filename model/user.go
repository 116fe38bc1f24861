package model

import "gorm.io/gorm"

// User struct
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `json:"role"`

	// Athlete profile
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Sport       string `json:"sport"`
	Position    string `json:"position"`
	TeamName    string `json:"team_name"`

	Banned bool `gorm:"not null;default:false" json:"banned"`

	Otp_enabled bool `gorm:"default:false;"`
	Otp_secret  string
}
