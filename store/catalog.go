package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dndoverworld/server/cache"
	"github.com/dndoverworld/server/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tableRaces     = "races"
	tableSkills    = "skills"
	tableAbilities = "abilities"
)

// Catalog entries are keyed under a per-table generation. A committed write
// replaces the generation with a fresh random one, which orphans every
// cached entry for that table at once; the orphans age out through their
// TTL. A generation is never reused, so a generation key lost to eviction
// cannot resurrect entries cached under an earlier one.
func generationKey(table string) string {
	return "catalog:" + table + ":gen"
}

func entryKey(table, gen, name string) string {
	return fmt.Sprintf("catalog:%s:%s:%s", table, gen, name)
}

// invalidator returns the after-write hook for a catalog table. Inside a
// transaction the table is only marked stale; Transaction bumps it after
// commit.
func (s *Store) invalidator(table string) func(ctx context.Context) {
	return func(ctx context.Context) {
		if s.scope != nil {
			s.scope.markStale(table)
			return
		}
		s.bumpGeneration(ctx, table)
	}
}

func (s *Store) bumpGeneration(ctx context.Context, table string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, generationKey(table), uuid.NewString(), 0); err != nil {
		s.logger.Warn("catalog invalidation failed", zap.String("table", table), zap.Error(err))
	}
}

// generation returns the current generation of table, starting a new one
// if none is set. An empty result means the cache is unusable and the
// lookup should go to the database.
func (s *Store) generation(ctx context.Context, table string) string {
	key := generationKey(table)
	gen, err := s.cache.Get(ctx, key)
	if err == nil {
		return gen
	}
	if !cache.IsNotFound(err) {
		s.logger.Debug("catalog generation read failed", zap.String("table", table), zap.Error(err))
		return ""
	}
	fresh := uuid.NewString()
	ok, err := s.cache.SetNX(ctx, key, fresh, 0)
	if err != nil {
		s.logger.Debug("catalog generation init failed", zap.String("table", table), zap.Error(err))
		return ""
	}
	if ok {
		return fresh
	}
	// Lost the race to another reader or writer.
	if gen, err = s.cache.Get(ctx, key); err != nil {
		return ""
	}
	return gen
}

// lookupByName is a cache-aside read. Transactions read the database
// directly: their rows are not visible to anyone else until commit.
func lookupByName[T any](ctx context.Context, s *Store, repo *Repo[T], table, name string) (*T, error) {
	if s.cache == nil || s.scope != nil {
		return repo.first(ctx, "name = ?", name)
	}
	gen := s.generation(ctx, table)
	if gen == "" {
		return repo.first(ctx, "name = ?", name)
	}

	key := entryKey(table, gen, name)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var row T
		if err := json.Unmarshal([]byte(raw), &row); err == nil {
			return &row, nil
		}
		s.logger.Warn("catalog cache entry corrupt", zap.String("key", key))
	}

	row, err := repo.first(ctx, "name = ?", name)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(row); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.opts.CatalogTTL); err != nil {
			s.logger.Debug("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return row, nil
}

// RaceByName finds a race by its unique name.
func (s *Store) RaceByName(ctx context.Context, name string) (*model.Race, error) {
	return lookupByName(ctx, s, s.Races, tableRaces, name)
}

// SkillByName finds a skill by its unique name.
func (s *Store) SkillByName(ctx context.Context, name string) (*model.Skill, error) {
	return lookupByName(ctx, s, s.Skills, tableSkills, name)
}

// AbilityByName finds an ability by its unique name.
func (s *Store) AbilityByName(ctx context.Context, name string) (*model.Ability, error) {
	return lookupByName(ctx, s, s.Abilities, tableAbilities, name)
}

// EnsureRoles inserts any of the named roles that do not exist yet and
// leaves existing ones untouched.
func (s *Store) EnsureRoles(ctx context.Context, names ...string) error {
	for _, name := range names {
		role := model.Role{Name: name}
		err := s.conn(ctx).Where(model.Role{Name: name}).FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("ensure role %q: %w", name, Classify(err))
		}
	}
	return nil
}
