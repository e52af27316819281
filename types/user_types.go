package types

import "time"

type User struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserStore interface {
	UpsertUser(user User) error
	GetUser(userID int64) (*User, error)
}

type OptionsStore interface {
	GetUserOptions(userID int64) (map[string]interface{}, error)
	SetUserOptions(userID int64, options map[string]interface{}) error
}
