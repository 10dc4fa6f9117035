package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dndoverworld/server/model"
	"github.com/dndoverworld/server/store"
	"github.com/dndoverworld/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRaceByName_ServedFromCache(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	race := &model.Race{Name: "Elf", Description: strPtr("long-lived")}
	require.NoError(t, s.Races.Create(ctx, race))

	got, err := s.RaceByName(ctx, "Elf")
	require.NoError(t, err)
	assert.Equal(t, race.ID, got.ID)

	// A write that bypasses the store is invisible until the entry expires.
	require.NoError(t, s.DB().Model(&model.Race{}).Where("id = ?", race.ID).
		Update("description", "changed behind the cache").Error)

	got, err = s.RaceByName(ctx, "Elf")
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "long-lived", *got.Description)
}

func TestRaceByName_InvalidatedByStoreWrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	race := &model.Race{Name: "Elf"}
	require.NoError(t, s.Races.Create(ctx, race))
	_, err := s.RaceByName(ctx, "Elf")
	require.NoError(t, err)

	race.Name = "High Elf"
	require.NoError(t, s.Races.Update(ctx, race))

	_, err = s.RaceByName(ctx, "Elf")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.RaceByName(ctx, "High Elf")
	require.NoError(t, err)
	assert.Equal(t, race.ID, got.ID)
}

func TestSkillAndAbilityByName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Skills.Create(ctx, &model.Skill{Name: "Acrobatics"}))
	require.NoError(t, s.Abilities.Create(ctx, &model.Ability{Name: "Rage"}))

	sk, err := s.SkillByName(ctx, "Acrobatics")
	require.NoError(t, err)
	assert.Equal(t, "Acrobatics", sk.Name)

	ab, err := s.AbilityByName(ctx, "Rage")
	require.NoError(t, err)
	assert.Equal(t, "Rage", ab.Name)

	require.NoError(t, s.Abilities.Delete(ctx, ab.ID))
	_, err = s.AbilityByName(ctx, "Rage")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.SkillByName(ctx, "Juggling")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_NoCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db, nil, zap.NewNop(), store.Options{})
	ctx := context.Background()

	require.NoError(t, s.Races.Create(ctx, &model.Race{Name: "Orc"}))
	got, err := s.RaceByName(ctx, "Orc")
	require.NoError(t, err)
	assert.Equal(t, "Orc", got.Name)
}

func TestCatalog_RolledBackRenameNotCached(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	race := &model.Race{Name: "Elf"}
	require.NoError(t, s.Races.Create(ctx, race))
	_, err := s.RaceByName(ctx, "Elf")
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = s.Transaction(ctx, func(tx *store.Store) error {
		renamed := *race
		renamed.Name = "High Elf"
		if err := tx.Races.Update(ctx, &renamed); err != nil {
			return err
		}
		got, err := tx.RaceByName(ctx, "High Elf")
		require.NoError(t, err)
		assert.Equal(t, race.ID, got.ID)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = s.RaceByName(ctx, "High Elf")
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := s.RaceByName(ctx, "Elf")
	require.NoError(t, err)
	assert.Equal(t, race.ID, got.ID)
}

func TestCatalog_InvalidatedAfterCommit(t *testing.T) {
	c := testutil.SetupTestCache(t)
	s := store.New(testutil.SetupTestDB(t), c, zap.NewNop(), store.Options{})
	ctx := context.Background()

	race := &model.Race{Name: "Elf"}
	require.NoError(t, s.Races.Create(ctx, race))
	_, err := s.RaceByName(ctx, "Elf")
	require.NoError(t, err)
	before, err := c.Get(ctx, "catalog:races:gen")
	require.NoError(t, err)

	err = s.Transaction(ctx, func(tx *store.Store) error {
		renamed := *race
		renamed.Name = "Sindar"
		if err := tx.Races.Update(ctx, &renamed); err != nil {
			return err
		}
		gen, err := c.Get(ctx, "catalog:races:gen")
		require.NoError(t, err)
		assert.Equal(t, before, gen, "generation must not move before commit")
		return nil
	})
	require.NoError(t, err)

	after, err := c.Get(ctx, "catalog:races:gen")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	_, err = s.RaceByName(ctx, "Elf")
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := s.RaceByName(ctx, "Sindar")
	require.NoError(t, err)
	assert.Equal(t, race.ID, got.ID)
}

func TestCatalog_NestedRollbackKeepsOuterWrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Skills.Create(ctx, &model.Skill{Name: "Perception"}))
	_, err := s.SkillByName(ctx, "Perception")
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = s.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Skills.Create(ctx, &model.Skill{Name: "Tracking"}); err != nil {
			return err
		}
		inner := tx.Transaction(ctx, func(tx2 *store.Store) error {
			if err := tx2.Skills.Create(ctx, &model.Skill{Name: "Herbalism"}); err != nil {
				return err
			}
			return errAbort
		})
		assert.ErrorIs(t, inner, errAbort)
		return nil
	})
	require.NoError(t, err)

	got, err := s.SkillByName(ctx, "Tracking")
	require.NoError(t, err)
	assert.Equal(t, "Tracking", got.Name)
	_, err = s.SkillByName(ctx, "Herbalism")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_GenerationLostStartsFresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	s := store.New(db, c, zap.NewNop(), store.Options{})
	ctx := context.Background()

	race := &model.Race{Name: "Dwarf", Description: strPtr("stout")}
	require.NoError(t, s.Races.Create(ctx, race))
	_, err := s.RaceByName(ctx, "Dwarf")
	require.NoError(t, err)

	// Change the row behind the store and drop the generation, as an
	// eviction would. The old entry must not be served again.
	require.NoError(t, db.Model(&model.Race{}).Where("id = ?", race.ID).
		Update("description", "bearded").Error)
	require.NoError(t, c.Del(ctx, "catalog:races:gen"))

	got, err := s.RaceByName(ctx, "Dwarf")
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "bearded", *got.Description)

	gen, err := c.Get(ctx, "catalog:races:gen")
	require.NoError(t, err)
	assert.NotEqual(t, "0", gen)
}
