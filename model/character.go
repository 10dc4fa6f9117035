package model

// Character is a player character owned by a user.
type Character struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"size:128;not null" json:"name"`
	UserID       int64   `gorm:"index:idx_character_user;not null" json:"user_id"`
	RaceID       int64   `gorm:"index:idx_character_race;not null" json:"race_id"`
	CharClass    string  `gorm:"size:64;not null" json:"char_class"`
	Level        int     `gorm:"not null" json:"level"`
	Strength     int     `gorm:"not null" json:"strength"`
	Dexterity    int     `gorm:"not null" json:"dexterity"`
	Intelligence int     `gorm:"not null" json:"intelligence"`
	Background   *string `gorm:"type:text" json:"background,omitempty"`

	User               *User              `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`
	Race               *Race              `gorm:"foreignKey:RaceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"race,omitempty"`
	Items              []Item             `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"items,omitempty"`
	Spells             []Spell            `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"spells,omitempty"`
	CharacterSkills    []CharacterSkill   `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character_skills,omitempty"`
	CharacterAbilities []CharacterAbility `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character_abilities,omitempty"`
}

// CharacterSkill links a character to a skill. The pair is not unique:
// the same skill may be linked more than once.
type CharacterSkill struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64 `gorm:"index:idx_character_skill_char;not null" json:"character_id"`
	SkillID     int64 `gorm:"index:idx_character_skill_skill;not null" json:"skill_id"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character,omitempty"`
	Skill     *Skill     `gorm:"foreignKey:SkillID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"skill,omitempty"`
}

// CharacterAbility links a character to an ability. Duplicates are allowed.
type CharacterAbility struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64 `gorm:"index:idx_character_ability_char;not null" json:"character_id"`
	AbilityID   int64 `gorm:"index:idx_character_ability_ability;not null" json:"ability_id"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character,omitempty"`
	Ability   *Ability   `gorm:"foreignKey:AbilityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ability,omitempty"`
}
