package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/dndoverworld/server/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Config tunes the background writer. Zero fields take defaults.
type Config struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

type traceKey struct{}

// WithTraceID tags ctx so mutations made under it carry traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom returns the trace ID attached by WithTraceID, if any.
func TraceIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Service records row mutations asynchronously in batches.
type Service struct {
	db       *gorm.DB
	ch       chan *model.AuditLog
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   *zap.Logger
	batch    int
	interval time.Duration
	skip     map[string]bool
}

// New creates a Service and starts its background worker. db is used only
// for flushing; call Register to attach the hooks to a handle.
func New(db *gorm.DB, cfg Config, logger *zap.Logger) *Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	svc := &Service{
		db:       db.Session(&gorm.Session{NewDB: true}),
		ch:       make(chan *model.AuditLog, cfg.QueueSize),
		stopCh:   make(chan struct{}),
		logger:   logger,
		batch:    cfg.BatchSize,
		interval: cfg.FlushInterval,
		skip:     map[string]bool{},
	}
	if stmt := (&gorm.Statement{DB: db}); stmt.Parse(&model.AuditLog{}) == nil {
		svc.skip[stmt.Schema.Table] = true
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Register attaches after-create, after-update and after-delete callbacks
// to db. Failed statements are not recorded.
func (svc *Service) Register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("audit:create", svc.hook(model.AuditCreate)); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("audit:update", svc.hook(model.AuditUpdate)); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("audit:delete", svc.hook(model.AuditDelete))
}

func (svc *Service) hook(action string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		stmt := tx.Statement
		if tx.Error != nil || stmt.Schema == nil || svc.skip[stmt.Table] || tx.RowsAffected == 0 {
			return
		}
		pk := stmt.Schema.PrioritizedPrimaryField
		rv := reflect.Indirect(stmt.ReflectValue)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				svc.enqueue(stmt, action, 1, pk, reflect.Indirect(rv.Index(i)))
			}
		case reflect.Struct:
			svc.enqueue(stmt, action, tx.RowsAffected, pk, rv)
		}
	}
}

func (svc *Service) enqueue(stmt *gorm.Statement, action string, affected int64, pk *schema.Field, rv reflect.Value) {
	ctx := stmt.Context
	record := &model.AuditLog{
		TraceID:      TraceIDFrom(ctx),
		Table:        stmt.Table,
		Action:       action,
		RowsAffected: affected,
	}
	if pk != nil {
		if v, zero := pk.ValueOf(ctx, rv); !zero {
			if id, ok := v.(int64); ok {
				record.RowID = id
			}
		}
	}

	// Column-level updates carry their values in Dest; deletes record only
	// the key; everything else is the row itself.
	var payload interface{}
	switch dest := stmt.Dest.(type) {
	case map[string]interface{}:
		payload = dest
	default:
		if action == model.AuditDelete || !rv.CanInterface() {
			payload = map[string]int64{"id": record.RowID}
		} else {
			payload = rv.Interface()
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	record.Payload = datatypes.JSON(raw)
	if p := pendingFrom(ctx); p != nil {
		p.add(svc, record)
		return
	}
	svc.Log(record)
}

// Log enqueues an entry for the next batch write. A full queue drops the
// entry with a warning rather than blocking the writer.
func (svc *Service) Log(record *model.AuditLog) {
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit queue full, dropping entry",
			zap.String("table", record.Table),
			zap.String("action", record.Action))
	}
}

// Stop flushes queued entries and waits for the worker to exit.
func (svc *Service) Stop() {
	svc.stopOnce.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(svc.interval)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, svc.batch)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= svc.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
