package postgres

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Registration always yields a viewer; only admins promote.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Document struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    *string    `json:"content,omitempty"`
	Type       string     `json:"type"`
	ObjectName *string    `json:"object_name,omitempty"`
	Size       int64      `json:"size"`
	OwnerID    *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
