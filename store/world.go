package store

import (
	"context"

	"github.com/dndoverworld/server/model"
)

// EventsByLocation lists what happens at a location in date order.
func (s *Store) EventsByLocation(ctx context.Context, locationID int64) ([]model.Event, error) {
	var rows []model.Event
	err := s.conn(ctx).
		Where("location_id = ?", locationID).
		Order("date_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

// MonstersByLocation lists the monsters placed at a location.
func (s *Store) MonstersByLocation(ctx context.Context, locationID int64) ([]model.Monster, error) {
	return s.Monsters.where(ctx, nil, "location_id = ?", locationID)
}

// LinkMonsterSkill records that a monster has a skill.
func (s *Store) LinkMonsterSkill(ctx context.Context, monsterID, skillID int64) (*model.MonsterSkill, error) {
	link := &model.MonsterSkill{MonsterID: monsterID, SkillID: skillID}
	if err := s.MonsterSkills.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// LinkMonsterAbility records that a monster has an ability.
func (s *Store) LinkMonsterAbility(ctx context.Context, monsterID, abilityID int64) (*model.MonsterAbility, error) {
	link := &model.MonsterAbility{MonsterID: monsterID, AbilityID: abilityID}
	if err := s.MonsterAbilities.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SkillsOfMonster lists a monster's skill links with the skill loaded.
func (s *Store) SkillsOfMonster(ctx context.Context, monsterID int64) ([]model.MonsterSkill, error) {
	return s.MonsterSkills.where(ctx, []string{"Skill"}, "monster_id = ?", monsterID)
}

// AbilitiesOfMonster lists a monster's ability links with the ability loaded.
func (s *Store) AbilitiesOfMonster(ctx context.Context, monsterID int64) ([]model.MonsterAbility, error) {
	return s.MonsterAbilities.where(ctx, []string{"Ability"}, "monster_id = ?", monsterID)
}

// MonsterStatBlock loads a monster with its location, skills and abilities.
func (s *Store) MonsterStatBlock(ctx context.Context, id int64) (*model.Monster, error) {
	return s.Monsters.Get(ctx, id, "Location", "MonsterSkills.Skill", "MonsterAbilities.Ability")
}
