package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scrape-service/internal/entity"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs   []execCall
	execErr error
	row     pgx.Row
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), db.execErr
}

func (db *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return db.row }

func (db *fakeDB) Ping(context.Context) error { return nil }

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.values[i].(string)
		case **string:
			*d, _ = r.values[i].(*string)
		case *[]string:
			*d = r.values[i].([]string)
		case *int:
			*d = r.values[i].(int)
		case *time.Time:
			*d = r.values[i].(time.Time)
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}

func TestRecordCache_PutUpsertsWithNullableCategory(t *testing.T) {
	db := &fakeDB{}
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	err := NewRecordCache(db).Put(context.Background(), &entity.ScrapedRecord{URL: "https://example.com/", Title: "T", ScrapedAt: at})
	require.NoError(t, err)

	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "ON CONFLICT (url) DO UPDATE")
	args := db.execs[0].args
	assert.Equal(t, "https://example.com/", args[0])
	assert.Equal(t, []string{}, args[3])
	assert.Nil(t, args[4])
	assert.Equal(t, at, args[5])
}

func TestRecordCache_PutFailureIsCacheError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}

	err := NewRecordCache(db).Put(context.Background(), &entity.ScrapedRecord{URL: "https://example.com/"})

	var cacheErr *entity.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "put", cacheErr.Op)
}

func TestRecordCache_GetMiss(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	got, err := NewRecordCache(db).Get(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordCache_GetHit(t *testing.T) {
	category := "Software"
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{"https://example.com/", "T", "D", []string{"/a"}, &category, at}}}

	got, err := NewRecordCache(db).Get(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.True(t, got.Equal(&entity.ScrapedRecord{
		URL: "https://example.com/", Title: "T", Description: "D", Links: []string{"/a"}, Category: "Software", ScrapedAt: at,
	}))
}

func TestRecordCache_GetErrorIsCacheError(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: errors.New("timeout")}}

	_, err := NewRecordCache(db).Get(context.Background(), "https://example.com/")

	var cacheErr *entity.CacheError
	assert.True(t, errors.As(err, &cacheErr))
}

func TestFailureRepo_FindByURL(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{"https://example.com/404", "extracting", "unexpected status 404", 404, 3, at}}}

	got, err := NewFailureRepo(db).FindByURL(context.Background(), "https://example.com/404")
	require.NoError(t, err)
	assert.Equal(t, &entity.ScrapeFailure{
		URL: "https://example.com/404", Stage: entity.StageExtracting, Reason: "unexpected status 404",
		HTTPStatusCode: 404, Attempts: 3, LastAttempt: at,
	}, got)
}

func TestFailureRepo_SaveAndDelete(t *testing.T) {
	db := &fakeDB{}
	repo := NewFailureRepo(db)

	require.NoError(t, repo.SaveOrUpdate(context.Background(), &entity.ScrapeFailure{URL: "u", Stage: entity.StageDetecting}))
	require.NoError(t, repo.Delete(context.Background(), "u"))

	require.Len(t, db.execs, 2)
	assert.Contains(t, db.execs[0].sql, "attempts = scrape_failures.attempts + 1")
	assert.Equal(t, "detecting", db.execs[0].args[1])
	assert.Contains(t, db.execs[1].sql, "DELETE FROM scrape_failures")
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.Len(t, db.execs, 2)
}
