package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dndoverworld/server/audit"
	"github.com/dndoverworld/server/cache"
	"github.com/dndoverworld/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCatalogTTL = 10 * time.Minute

// Options tunes a Store. The zero value is usable.
type Options struct {
	// CatalogTTL bounds how long a cached race/skill/ability lookup lives.
	CatalogTTL time.Duration
}

// Store is the query layer over the campaign schema. It holds one repo per
// table and the typed finders that span them.
type Store struct {
	db     *gorm.DB
	scope  *txScope
	cache  cache.Cache
	logger *zap.Logger
	opts   Options

	Roles              *Repo[model.Role]
	Users              *Repo[model.User]
	Races              *Repo[model.Race]
	Skills             *Repo[model.Skill]
	Abilities          *Repo[model.Ability]
	Characters         *Repo[model.Character]
	CharacterSkills    *Repo[model.CharacterSkill]
	CharacterAbilities *Repo[model.CharacterAbility]
	GameSessions       *Repo[model.GameSession]
	Items              *Repo[model.Item]
	Spells             *Repo[model.Spell]
	Players            *Repo[model.Player]
	Locations          *Repo[model.Location]
	Events             *Repo[model.Event]
	Monsters           *Repo[model.Monster]
	MonsterSkills      *Repo[model.MonsterSkill]
	MonsterAbilities   *Repo[model.MonsterAbility]
}

// New creates a Store. c may be nil, in which case catalog lookups always
// hit the database.
func New(db *gorm.DB, c cache.Cache, logger *zap.Logger, opts Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CatalogTTL <= 0 {
		opts.CatalogTTL = defaultCatalogTTL
	}
	return newStore(db, nil, c, logger, opts)
}

func newStore(db *gorm.DB, scope *txScope, c cache.Cache, logger *zap.Logger, opts Options) *Store {
	s := &Store{db: db, scope: scope, cache: c, logger: logger, opts: opts}
	s.Roles = newRepo[model.Role](db, scope, nil)
	s.Users = newRepo[model.User](db, scope, nil)
	s.Races = newRepo[model.Race](db, scope, s.invalidator(tableRaces))
	s.Skills = newRepo[model.Skill](db, scope, s.invalidator(tableSkills))
	s.Abilities = newRepo[model.Ability](db, scope, s.invalidator(tableAbilities))
	s.Characters = newRepo[model.Character](db, scope, nil)
	s.CharacterSkills = newRepo[model.CharacterSkill](db, scope, nil)
	s.CharacterAbilities = newRepo[model.CharacterAbility](db, scope, nil)
	s.GameSessions = newRepo[model.GameSession](db, scope, nil)
	s.Items = newRepo[model.Item](db, scope, nil)
	s.Spells = newRepo[model.Spell](db, scope, nil)
	s.Players = newRepo[model.Player](db, scope, nil)
	s.Locations = newRepo[model.Location](db, scope, nil)
	s.Events = newRepo[model.Event](db, scope, nil)
	s.Monsters = newRepo[model.Monster](db, scope, nil)
	s.MonsterSkills = newRepo[model.MonsterSkill](db, scope, nil)
	s.MonsterAbilities = newRepo[model.MonsterAbility](db, scope, nil)
	return s
}

// DB exposes the underlying handle for callers that need raw queries.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(s.scope.bind(ctx))
}

// Transaction runs fn against a Store bound to a single transaction.
// Returning an error from fn rolls everything back. Audit entries and
// catalog cache invalidations for writes made through tx take effect only
// once the outermost transaction commits.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	ctx, held := audit.Hold(s.scope.bind(ctx))
	scope := &txScope{parent: s.scope, audit: held}
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(newStore(gtx, scope, s.cache, s.logger, s.opts))
	})
	if err != nil {
		held.Discard()
		return Classify(err)
	}
	held.Commit()
	for _, table := range scope.staleTables() {
		if s.scope != nil {
			s.scope.markStale(table)
			continue
		}
		s.bumpGeneration(ctx, table)
	}
	return nil
}

// txScope carries the side effects of a transaction that must wait for it
// to commit.
type txScope struct {
	parent *txScope
	audit  *audit.Pending

	mu    sync.Mutex
	stale map[string]bool
}

// bind routes audit entries for writes under ctx into the scope. A nil
// scope leaves ctx unchanged.
func (sc *txScope) bind(ctx context.Context) context.Context {
	if sc == nil {
		return ctx
	}
	return audit.WithPending(ctx, sc.audit)
}

func (sc *txScope) markStale(table string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.stale == nil {
		sc.stale = map[string]bool{}
	}
	sc.stale[table] = true
}

func (sc *txScope) staleTables() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	tables := make([]string, 0, len(sc.stale))
	for t := range sc.stale {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}
