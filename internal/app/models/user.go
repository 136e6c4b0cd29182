package models

import "time"

// User defines the user model based on the 'users' table.
type User struct {
	ID        int64     `json:"id" db:"id"`
	UserName  string    `json:"userName" db:"user_name" example:"admin"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Role      RoleType  `json:"role" db:"role" example:"coordinator"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
