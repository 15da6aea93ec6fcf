// Package directory is the read/write side of the learner, program, job and
// application records, backed by PostgreSQL with a Redis read-through cache
// for profiles.
package directory

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"careerguide-workers/internal/common/database"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/eligibility"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = stderrors.New("record not found")
	ErrInsertFailed = stderrors.New("insert failed")
	ErrUpdateFailed = stderrors.New("update failed")
)

const cachePrefix = "careerguide:"

// Store reads and writes directory records. A nil cache disables caching.
type Store struct {
	db     *sql.DB
	cache  redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewStore(db *sql.DB, cache redis.UniversalClient, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "directory"}),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func cacheKey(entity, id string) string {
	return cachePrefix + entity + ":" + id
}

func (s *Store) cacheGet(ctx context.Context, entity, id string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := database.GetJSON(ctx, s.cache, cacheKey(entity, id), dst)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(entity, "error").Inc()
		s.logger.Warn("cache read failed", map[string]interface{}{
			"entity": entity,
			"id":     id,
			"error":  err.Error(),
		})
		return false
	case hit:
		metrics.CacheLookups.WithLabelValues(entity, "hit").Inc()
	default:
		metrics.CacheLookups.WithLabelValues(entity, "miss").Inc()
	}
	return hit
}

func (s *Store) cacheSet(ctx context.Context, entity, id string, v interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := database.SetJSON(ctx, s.cache, cacheKey(entity, id), v, s.ttl); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{
			"entity": entity,
			"id":     id,
			"error":  err.Error(),
		})
	}
}

// Invalidate drops a cached learner or program after it changes upstream.
func (s *Store) Invalidate(ctx context.Context, entity, id string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKey(entity, id)).Err()
}

func decodeJSON(raw []byte, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// Classify turns a store error into the StandardError a worker reports.
// notFound is the code used when the record does not exist.
func Classify(err error, notFound errors.ErrorCode) *errors.StandardError {
	if se, ok := errors.AsStandardError(err); ok {
		return se
	}
	switch {
	case stderrors.Is(err, ErrNotFound):
		return errors.Wrap(notFound, "record not found", err)
	case stderrors.Is(err, ErrInstitutionMismatch):
		return errors.Wrap(errors.ErrCodeInvalidInput, "course and institution do not match", err)
	case stderrors.Is(err, eligibility.ErrTransitionNotAllowed):
		return errors.Wrap(errors.ErrCodeTransitionNotAllowed, "status transition not allowed", err)
	case stderrors.Is(err, eligibility.ErrRoleNotAllowed):
		return errors.Wrap(errors.ErrCodeRoleNotAllowed, "actor may not change this application", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeQueryTimeout, "directory query timed out", err)
	case stderrors.Is(err, driver.ErrBadConn), stderrors.Is(err, sql.ErrConnDone):
		return errors.Wrap(errors.ErrCodeDatabaseConnectionFailed, "directory connection lost", err)
	case stderrors.Is(err, ErrInsertFailed):
		return errors.Wrap(errors.ErrCodeDatabaseInsertFailed, "directory insert failed", err)
	case stderrors.Is(err, ErrUpdateFailed):
		return errors.Wrap(errors.ErrCodeDatabaseUpdateFailed, "directory update failed", err)
	}
	return errors.Wrap(errors.ErrCodeQueryExecutionFailed, "directory query failed", err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
