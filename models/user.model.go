package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name            string     `json:"name" gorm:"default:''"`
	Email           string     `json:"email" gorm:"unique;not null"`
	Password        string     `json:"-" gorm:"not null"`
	Role            string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false"`
	LastLogin       *time.Time `json:"last_login"`
	IsDeleted       bool       `json:"-" gorm:"default:false"`
}
