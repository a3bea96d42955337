package postgres

import (
	"context"
	"errors"
	"testing"

	"property-service/internal/contextkeys"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countRow struct {
	count int64
	err   error
}

func (r countRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.count
	return nil
}

// idRows отдает по одному id на строку; остальные методы pgx.Rows не используются
type idRows struct {
	pgx.Rows
	ids []int64
	pos int
}

func (r *idRows) Next() bool {
	r.pos++
	return r.pos <= len(r.ids)
}

func (r *idRows) Scan(dest ...interface{}) error {
	*dest[0].(*int64) = r.ids[r.pos-1]
	return nil
}

func (r *idRows) Close()     {}
func (r *idRows) Err() error { return nil }

type stubQuerier struct {
	row     countRow
	ids     []int64
	rowsErr error
}

func (q stubQuerier) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	if q.rowsErr != nil {
		return nil, q.rowsErr
	}
	return &idRows{ids: q.ids}, nil
}

func (q stubQuerier) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return q.row
}

func scanID(rows pgx.Rows) (int64, error) {
	var id int64
	err := rows.Scan(&id)
	return id, err
}

func fetchIDs(db querier) ([]int64, int64, error) {
	page, err := fetchPage(context.Background(), db, contextkeys.NoopLogger(),
		"SELECT COUNT(*)", nil, "SELECT id", nil, 10, scanID)
	if err != nil {
		return nil, 0, err
	}
	return page.Rows, page.Count, nil
}

func TestFetchPage(t *testing.T) {
	errDB := errors.New("connection reset")

	t.Run("both succeed", func(t *testing.T) {
		rows, count, err := fetchIDs(stubQuerier{row: countRow{count: 12}, ids: []int64{3, 4}})

		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, rows)
		assert.Equal(t, int64(12), count)
	})

	t.Run("count fails, rows are kept with zero count", func(t *testing.T) {
		rows, count, err := fetchIDs(stubQuerier{row: countRow{err: errDB}, ids: []int64{3, 4}})

		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, rows)
		assert.Zero(t, count)
	})

	t.Run("rows fail, count is kept with empty rows", func(t *testing.T) {
		rows, count, err := fetchIDs(stubQuerier{row: countRow{count: 12}, rowsErr: errDB})

		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
		assert.Equal(t, int64(12), count)
	})

	t.Run("both fail", func(t *testing.T) {
		_, _, err := fetchIDs(stubQuerier{row: countRow{err: errDB}, rowsErr: errDB})

		require.Error(t, err)
		assert.ErrorIs(t, err, errDB)
	})
}
