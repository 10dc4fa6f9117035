package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for stored passwords.
const passwordCost = 12

// User is a registered account. It owns characters and may run game sessions.
type User struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username         string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	RoleID           int64     `gorm:"index;not null" json:"role_id"`
	RegistrationDate time.Time `gorm:"autoCreateTime;not null" json:"registration_date"`
	PhotoPath        *string   `gorm:"size:512" json:"photo_path,omitempty"`

	Role       *Role       `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"role,omitempty"`
	Characters []Character `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"characters,omitempty"`
}

// SetPassword replaces the stored password with a bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
