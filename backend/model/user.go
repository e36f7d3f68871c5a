package model

import (
	"errors"

	"archive-hub/backend/common"
)

// User is an account that can sign in. Users are only created by
// CreateRootAccountIfNeed; no endpoint mutates or deletes them.
// Sensitive fields like Password are never included in API responses.
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username string `json:"username" gorm:"uniqueIndex;size:64;not null"`
	Password string `json:"-" gorm:"size:100;not null"`
	IsAdmin  bool   `json:"isAdmin" gorm:"not null;default:false"`
}

func (User) TableName() string {
	return "users"
}

// CreateRootAccountIfNeed seeds the administrator account when the store has
// no user with that name yet.
func CreateRootAccountIfNeed(store Store, username string, password string) error {
	if username == "" || password == "" {
		return errors.New("admin username and password must not be empty")
	}
	_, err := store.UserByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	common.SysLog("no admin user exists, creating one: username is " + username)
	hashedPassword, err := common.Password2Hash(password)
	if err != nil {
		return err
	}
	return store.CreateUser(&User{
		Username: username,
		Password: hashedPassword,
		IsAdmin:  true,
	})
}
