package model

import "gorm.io/gorm"

// allModels lists every model to be auto-migrated. AutoMigrate reorders
// them by foreign-key dependency, so the order here is for readers only.
var allModels = []interface{}{
	&Role{},
	&User{},
	&Race{},
	&Skill{},
	&Ability{},
	&Character{},
	&CharacterSkill{},
	&CharacterAbility{},
	&GameSession{},
	&Item{},
	&Spell{},
	&Player{},
	&Location{},
	&Event{},
	&Monster{},
	&MonsterSkill{},
	&MonsterAbility{},
	&AuditLog{},
}

// AutoMigrate creates missing tables, columns, indexes and foreign keys.
// Existing tables are left in place, so running it again is a no-op.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}

// Tables returns the table names AutoMigrate manages.
func Tables(db *gorm.DB) ([]string, error) {
	names := make([]string, 0, len(allModels))
	for _, m := range allModels {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}
