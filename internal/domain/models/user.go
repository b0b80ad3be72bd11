package models

import "time"

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email"`
	PassHash    []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
