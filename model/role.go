package model

// Role is a named permission group. Every user holds exactly one.
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

// Default role names seeded at startup.
const (
	RolePlayer     = "player"
	RoleGameMaster = "game_master"
)
