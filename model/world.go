package model

import "time"

// Location is a place in the campaign world.
type Location struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Coordinates *string `gorm:"size:128" json:"coordinates,omitempty"`

	Events []Event `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"events,omitempty"`
}

// Event is something that happens at a location.
type Event struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	DateTime    time.Time `gorm:"not null" json:"date_time"`
	LocationID  int64     `gorm:"index:idx_event_location;not null" json:"location_id"`

	Location *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"location,omitempty"`
}

// Monster is a creature, optionally placed at a location.
type Monster struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Health      int     `gorm:"not null" json:"health"`
	Attack      int     `gorm:"not null" json:"attack"`
	Defense     int     `gorm:"not null" json:"defense"`
	LocationID  *int64  `gorm:"index:idx_monster_location" json:"location_id,omitempty"`

	Location         *Location        `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"location,omitempty"`
	MonsterSkills    []MonsterSkill   `gorm:"foreignKey:MonsterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"monster_skills,omitempty"`
	MonsterAbilities []MonsterAbility `gorm:"foreignKey:MonsterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"monster_abilities,omitempty"`
}

// MonsterSkill links a monster to a skill. Duplicates are allowed.
type MonsterSkill struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MonsterID int64 `gorm:"index:idx_monster_skill_monster;not null" json:"monster_id"`
	SkillID   int64 `gorm:"index:idx_monster_skill_skill;not null" json:"skill_id"`

	Monster *Monster `gorm:"foreignKey:MonsterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"monster,omitempty"`
	Skill   *Skill   `gorm:"foreignKey:SkillID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"skill,omitempty"`
}

// MonsterAbility links a monster to an ability. Duplicates are allowed.
type MonsterAbility struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MonsterID int64 `gorm:"index:idx_monster_ability_monster;not null" json:"monster_id"`
	AbilityID int64 `gorm:"index:idx_monster_ability_ability;not null" json:"ability_id"`

	Monster *Monster `gorm:"foreignKey:MonsterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"monster,omitempty"`
	Ability *Ability `gorm:"foreignKey:AbilityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ability,omitempty"`
}
