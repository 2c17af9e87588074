package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account that owns time bookings. Booking queries are
// scoped to the owning user whenever a user context is available.
// Compatible with table `app_user`:
// id, login, pw, display_name, valid_id, create_time
type User struct {
	ID          int       `json:"id" db:"id"`
	Login       string    `json:"login" db:"login"`
	Password    string    `json:"-" db:"pw"` // bcrypt hash, never exposed in JSON
	DisplayName string    `json:"displayName" db:"display_name"`
	ValidID     int       `json:"validId" db:"valid_id"`
	CreateTime  time.Time `json:"createTime" db:"create_time"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
