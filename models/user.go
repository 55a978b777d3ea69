package models

import (
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// ParseRole validates a role claim against the closed set. Roles are
// validated once at the boundary and never re-derived downstream.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"password,omitempty"`
	Role      Role      `json:"role" gorm:"type:varchar(16)"`
	Doctor    *Doctor   `json:"doctor,omitempty" gorm:"foreignKey:UserID"`
	Patient   *Patient  `json:"patient,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
