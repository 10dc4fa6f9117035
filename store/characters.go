package store

import (
	"context"

	"github.com/dndoverworld/server/model"
)

// CharactersByUser lists the characters a user owns.
func (s *Store) CharactersByUser(ctx context.Context, userID int64) ([]model.Character, error) {
	return s.Characters.where(ctx, nil, "user_id = ?", userID)
}

// CharacterSheet loads a character with its race, items, spells, skills
// and abilities.
func (s *Store) CharacterSheet(ctx context.Context, id int64) (*model.Character, error) {
	return s.Characters.Get(ctx, id,
		"Race",
		"Items",
		"Spells",
		"CharacterSkills.Skill",
		"CharacterAbilities.Ability",
	)
}

// ItemsByCharacter lists the items a character carries.
func (s *Store) ItemsByCharacter(ctx context.Context, characterID int64) ([]model.Item, error) {
	return s.Items.where(ctx, nil, "character_id = ?", characterID)
}

// SpellsByCharacter lists the spells a character knows.
func (s *Store) SpellsByCharacter(ctx context.Context, characterID int64) ([]model.Spell, error) {
	return s.Spells.where(ctx, nil, "character_id = ?", characterID)
}

// LinkCharacterSkill records that a character has a skill. Linking the
// same pair twice stores two rows.
func (s *Store) LinkCharacterSkill(ctx context.Context, characterID, skillID int64) (*model.CharacterSkill, error) {
	link := &model.CharacterSkill{CharacterID: characterID, SkillID: skillID}
	if err := s.CharacterSkills.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// LinkCharacterAbility records that a character has an ability.
func (s *Store) LinkCharacterAbility(ctx context.Context, characterID, abilityID int64) (*model.CharacterAbility, error) {
	link := &model.CharacterAbility{CharacterID: characterID, AbilityID: abilityID}
	if err := s.CharacterAbilities.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SkillsOfCharacter lists a character's skill links with the skill loaded.
func (s *Store) SkillsOfCharacter(ctx context.Context, characterID int64) ([]model.CharacterSkill, error) {
	return s.CharacterSkills.where(ctx, []string{"Skill"}, "character_id = ?", characterID)
}

// AbilitiesOfCharacter lists a character's ability links with the ability loaded.
func (s *Store) AbilitiesOfCharacter(ctx context.Context, characterID int64) ([]model.CharacterAbility, error) {
	return s.CharacterAbilities.where(ctx, []string{"Ability"}, "character_id = ?", characterID)
}
