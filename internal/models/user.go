package models

import (
	"strconv"
	"time"
)

// Identity is the capability the HTTP layer needs from an authenticated principal.
type Identity interface {
	GetID() int
	IsAuthenticated() bool
}

type User struct {
	ID              int       `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"` // don’t expose hash
	DateCreated     time.Time `json:"-"`
	Token           string    `json:"-"` // empty when no token was ever issued
	TokenExpiration time.Time `json:"-"` // zero when no token was ever issued
}

var _ Identity = (*User)(nil)

func (u *User) GetID() int { return u.ID }

// IsAuthenticated reports whether u is a persisted user.
func (u *User) IsAuthenticated() bool { return u != nil && u.ID > 0 }

// HasValidToken reports whether the stored token is still usable at now.
func (u *User) HasValidToken(now time.Time) bool {
	return u.Token != "" && u.TokenExpiration.After(now)
}

func (u *User) String() string {
	return "<User " + strconv.Itoa(u.ID) + "|" + u.Username + ">"
}

// UserDict is the public JSON shape of a user.
type UserDict struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

func (u *User) ToDict() UserDict {
	return UserDict{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
	}
}
