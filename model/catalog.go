package model

// Race is a playable ancestry (elf, dwarf, ...).
type Race struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
}

// Skill is a trained proficiency shared by characters and monsters.
type Skill struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
}

// Ability is an innate or class feature shared by characters and monsters.
type Ability struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
}
