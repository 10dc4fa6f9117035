package store

import (
	"context"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// ListOptions pages and orders a List call. Zero values list everything
// ordered by primary key.
type ListOptions struct {
	Limit  int
	Offset int
	Order  string
}

// Repo provides the basic row operations for one table. Associations on
// the row are never written implicitly; each table is written on its own.
type Repo[T any] struct {
	db         *gorm.DB
	scope      *txScope
	afterWrite func(ctx context.Context)

	table     string
	required  []*schema.Field
	schemaErr error
}

func newRepo[T any](db *gorm.DB, scope *txScope, afterWrite func(ctx context.Context)) *Repo[T] {
	r := &Repo[T]{db: db, scope: scope, afterWrite: afterWrite}
	r.table, r.required, r.schemaErr = requiredFields(db, new(T))
	return r
}

func (r *Repo[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(r.scope.bind(ctx))
}

// validate rejects rows that leave a required column unset. gorm writes Go
// zero values verbatim, so the database NOT NULL constraint alone would
// never see them.
func (r *Repo[T]) validate(ctx context.Context, rows ...*T) error {
	if r.schemaErr != nil {
		return r.schemaErr
	}
	for _, row := range rows {
		if err := checkRequired(ctx, r.required, r.table, reflect.ValueOf(row)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo[T]) written(ctx context.Context) {
	if r.afterWrite != nil {
		r.afterWrite(ctx)
	}
}

// Create inserts row and fills in its generated primary key. A required
// column left at its zero value fails with ErrNotNullViolation.
func (r *Repo[T]) Create(ctx context.Context, row *T) error {
	if err := r.validate(ctx, row); err != nil {
		return err
	}
	if err := r.conn(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return Classify(err)
	}
	r.written(ctx)
	return nil
}

// CreateBatch inserts rows in a single statement.
func (r *Repo[T]) CreateBatch(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if err := r.validate(ctx, &rows[i]); err != nil {
			return err
		}
	}
	if err := r.conn(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return Classify(err)
	}
	r.written(ctx)
	return nil
}

// Get loads the row with the given id, or returns ErrNotFound.
func (r *Repo[T]) Get(ctx context.Context, id int64, preloads ...string) (*T, error) {
	var row T
	q := r.conn(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&row, id).Error; err != nil {
		return nil, Classify(err)
	}
	return &row, nil
}

// List returns rows in primary-key order unless opts says otherwise.
func (r *Repo[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	q := r.conn(ctx)
	if opts.Order != "" {
		q = q.Order(opts.Order)
	} else {
		q = q.Order("id")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

// Count returns the number of rows in the table.
func (r *Repo[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, Classify(err)
	}
	return n, nil
}

// Update writes every column of row, zero values included. The row must
// already exist; a missing row yields ErrNotFound.
func (r *Repo[T]) Update(ctx context.Context, row *T) error {
	if err := r.validate(ctx, row); err != nil {
		return err
	}
	res := r.conn(ctx).Model(row).Select("*").Omit(clause.Associations).Updates(row)
	if res.Error != nil {
		return Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.written(ctx)
	return nil
}

// Delete removes the row with the given id. Rows still referenced through
// a RESTRICT foreign key fail with ErrForeignKeyViolation.
func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	row, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Delete(row).Error; err != nil {
		return Classify(err)
	}
	r.written(ctx)
	return nil
}

// where runs a filtered Find; it backs the typed finders on Store.
func (r *Repo[T]) where(ctx context.Context, preloads []string, query string, args ...any) ([]T, error) {
	q := r.conn(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var rows []T
	if err := q.Where(query, args...).Order("id").Find(&rows).Error; err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

// first runs a filtered First.
func (r *Repo[T]) first(ctx context.Context, query string, args ...any) (*T, error) {
	var row T
	if err := r.conn(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, Classify(err)
	}
	return &row, nil
}
