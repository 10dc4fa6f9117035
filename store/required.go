package store

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// requiredFields lists the NOT NULL columns of model whose Go zero value can
// only mean "not supplied": text, timestamps and references to other rows.
// Numeric stats are left out since zero is a legal score. The table name is
// returned for error messages.
func requiredFields(db *gorm.DB, model any) (string, []*schema.Field, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", nil, err
	}
	refs := map[*schema.Field]bool{}
	for _, rel := range stmt.Schema.Relationships.BelongsTo {
		for _, ref := range rel.References {
			if !ref.OwnPrimaryKey {
				refs[ref.ForeignKey] = true
			}
		}
	}

	var fields []*schema.Field
	for _, f := range stmt.Schema.Fields {
		if !f.NotNull || f.PrimaryKey || f.DBName == "" ||
			f.HasDefaultValue || f.AutoCreateTime > 0 || f.AutoUpdateTime > 0 {
			continue
		}
		if f.GORMDataType == schema.String || f.GORMDataType == schema.Time || refs[f] {
			fields = append(fields, f)
		}
	}
	return stmt.Schema.Table, fields, nil
}

// checkRequired fails with ErrNotNullViolation when rv leaves a required
// column at its zero value.
func checkRequired(ctx context.Context, fields []*schema.Field, table string, rv reflect.Value) error {
	rv = reflect.Indirect(rv)
	for _, f := range fields {
		if _, zero := f.ValueOf(ctx, rv); zero {
			return fmt.Errorf("%w: %s.%s is required", ErrNotNullViolation, table, f.DBName)
		}
	}
	return nil
}
