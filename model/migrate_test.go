package model_test

import (
	"testing"
	"time"

	"github.com/dndoverworld/server/model"
	"github.com/dndoverworld/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_CreatesEveryTable(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tables, err := model.Tables(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"roles", "users", "races", "skills", "abilities",
		"characters", "character_skills", "character_abilities",
		"game_sessions", "items", "spells", "players",
		"locations", "events", "monsters", "monster_skills", "monster_abilities",
		"audit_logs",
	}, tables)

	for _, name := range tables {
		assert.True(t, db.Migrator().HasTable(name), "table %s", name)
	}
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	role := &model.Role{Name: "player"}
	require.NoError(t, db.Create(role).Error)

	// Second and third runs must neither fail nor drop data.
	require.NoError(t, model.AutoMigrate(db))
	require.NoError(t, model.AutoMigrate(db))

	var n int64
	require.NoError(t, db.Model(&model.Role{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAutoMigrate_ForeignKeysDeclared(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := db.Migrator()

	assert.True(t, m.HasConstraint(&model.User{}, "Role"))
	assert.True(t, m.HasConstraint(&model.Character{}, "Race"))
	assert.True(t, m.HasConstraint(&model.Player{}, "Character"))
}

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	role := &model.Role{Name: model.RoleGameMaster}
	require.NoError(t, db.Create(role).Error)

	user := &model.User{Username: "gm", Email: "gm@example.com", Password: "x", RoleID: role.ID}
	require.NoError(t, db.Create(user).Error)
	assert.Greater(t, user.ID, int64(0))
	assert.False(t, user.RegistrationDate.IsZero(), "registration date is stamped on insert")

	race := &model.Race{Name: "Dwarf"}
	require.NoError(t, db.Create(race).Error)

	char := &model.Character{
		Name: "Gimli", UserID: user.ID, RaceID: race.ID,
		CharClass: "fighter", Level: 3,
		Strength: 16, Dexterity: 10, Intelligence: 9,
	}
	require.NoError(t, db.Create(char).Error)

	skill := &model.Skill{Name: "Athletics"}
	require.NoError(t, db.Create(skill).Error)
	require.NoError(t, db.Create(&model.CharacterSkill{CharacterID: char.ID, SkillID: skill.ID}).Error)

	ability := &model.Ability{Name: "Darkvision"}
	require.NoError(t, db.Create(ability).Error)
	require.NoError(t, db.Create(&model.CharacterAbility{CharacterID: char.ID, AbilityID: ability.ID}).Error)

	require.NoError(t, db.Create(&model.Item{Name: "Axe", ItemType: "weapon", CharacterID: &char.ID}).Error)
	require.NoError(t, db.Create(&model.Spell{Name: "Light", Level: 0, CharClass: "cleric"}).Error)

	session := &model.GameSession{
		Title: "Moria", GameMasterID: user.ID,
		DateTime: time.Now(), Status: model.SessionPlanned,
	}
	require.NoError(t, db.Create(session).Error)
	require.NoError(t, db.Create(&model.Player{GameSessionID: session.ID, CharacterID: char.ID}).Error)

	loc := &model.Location{Name: "Khazad-dum"}
	require.NoError(t, db.Create(loc).Error)
	require.NoError(t, db.Create(&model.Event{Name: "Drums", DateTime: time.Now(), LocationID: loc.ID}).Error)

	monster := &model.Monster{Name: "Balrog", Health: 300, Attack: 20, Defense: 18, LocationID: &loc.ID}
	require.NoError(t, db.Create(monster).Error)
	require.NoError(t, db.Create(&model.MonsterSkill{MonsterID: monster.ID, SkillID: skill.ID}).Error)
	require.NoError(t, db.Create(&model.MonsterAbility{MonsterID: monster.ID, AbilityID: ability.ID}).Error)

	var found model.Character
	require.NoError(t, db.Preload("Items").Preload("CharacterSkills.Skill").First(&found, char.ID).Error)
	assert.Equal(t, "Gimli", found.Name)
	require.Len(t, found.Items, 1)
	require.Len(t, found.CharacterSkills, 1)
	assert.Equal(t, "Athletics", found.CharacterSkills[0].Skill.Name)
}
