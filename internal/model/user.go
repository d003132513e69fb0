package model

import "time"

// User mirrors the `users` table. PasswordHash never leaves the
// repository/service layers; API responses use PublicUser, which has no
// password field at all.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	Email        string    // users.email (unique, login key)
	PasswordHash string    // users.password_hash (bcrypt)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the outward-facing projection of a User. Because the
// struct simply has no password field, a hash cannot be serialized by
// accident anywhere a PublicUser is rendered.
type PublicUser struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public strips the credential material from a User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
