package model

// Item is a piece of equipment or loot. CharacterID is nil for unowned items.
type Item struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	ItemType    string  `gorm:"size:64;not null" json:"item_type"`
	Stats       *string `gorm:"type:text" json:"stats,omitempty"`
	CharacterID *int64  `gorm:"index:idx_item_char" json:"character_id,omitempty"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"character,omitempty"`
}

// Spell is a castable spell, optionally known by a character.
type Spell struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Level       int     `gorm:"not null" json:"level"`
	CharClass   string  `gorm:"size:64;not null" json:"char_class"`
	Effects     *string `gorm:"type:text" json:"effects,omitempty"`
	CharacterID *int64  `gorm:"index:idx_spell_char" json:"character_id,omitempty"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"character,omitempty"`
}
