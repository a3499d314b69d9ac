package models

import "time"

// StaffRole defines who may use the back-office endpoints
type StaffRole string

const (
	RoleStaff StaffRole = "staff"
	RoleAdmin StaffRole = "admin"
)

func (r StaffRole) Valid() bool {
	return r == RoleStaff || r == RoleAdmin
}

type StaffUser struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         StaffRole `json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
