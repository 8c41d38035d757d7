package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleStaff   UserRole = "staff"
	UserRoleAdmin   UserRole = "admin"
)

// User accounts start inactive and are activated by the first successful
// authentication-code validation.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name  string    `gorm:"type:varchar(255)"`
	Role  UserRole  `gorm:"type:varchar(32);default:'student';not null"`

	IsActive bool `gorm:"default:false;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
