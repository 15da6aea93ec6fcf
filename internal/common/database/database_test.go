package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careerguide-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Postgres
// ==========================

func TestWithTx_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE applications`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE applications SET status = 'approved'`)
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("cap reached")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestPingPostgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, PingPostgres(context.Background(), db))
}

func TestNewPostgres_DoesNotDial(t *testing.T) {
	db, err := NewPostgres(config.PostgresConfig{Host: "127.0.0.1", Port: 1, User: "u", Database: "d", SSLMode: "disable", MaxConnections: 2, MaxIdle: 1})
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

// ==========================
// Redis
// ==========================

type cached struct {
	ID     string   `json:"id"`
	Skills []string `json:"skills"`
}

func TestJSONCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	var out cached
	found, err := GetJSON(ctx, rdb, "learner:1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, "learner:1", cached{ID: "1", Skills: []string{"Go"}}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("learner:1"))

	found, err = GetJSON(ctx, rdb, "learner:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Go"}, out.Skills)

	mr.Set("learner:2", "{not json")
	_, err = GetJSON(ctx, rdb, "learner:2", &out)
	assert.Error(t, err)

	assert.NoError(t, PingRedis(ctx, rdb))
	mr.Close()
	assert.Error(t, PingRedis(ctx, rdb))
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rdb.Close()
	assert.NoError(t, PingRedis(context.Background(), rdb))
}

// ==========================
// Elasticsearch
// ==========================

func TestPingElasticsearch(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	assert.NoError(t, PingElasticsearch(context.Background(), es))

	status = http.StatusUnauthorized
	assert.Error(t, PingElasticsearch(context.Background(), es))
}
