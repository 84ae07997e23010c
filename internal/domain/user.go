package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCitizen = "CITIZEN"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FullName     string `gorm:"size:128;not null" json:"fullName"`
	PhoneNumber  string `gorm:"size:32" json:"phoneNumber,omitempty"`
	Role         string `gorm:"size:16;not null;default:CITIZEN" json:"role"` // CITIZEN / ADMIN

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int, q string) ([]User, int64, error)
	Update(u *User) error
	SoftDelete(id string) error
}
