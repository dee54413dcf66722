package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "relocate.locations",
		Columns:      []string{"slug", "name"},
		ConflictKeys: []string{"slug"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "relocate.locations",
		ConflictKeys: []string{"slug"},
	}, [][]any{{"a", "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "relocate.locations",
		Columns: []string{"slug", "name"},
	}, [][]any{{"a", "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_relocate_locations" \(LIKE "relocate"."locations"`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_relocate_locations"}, []string{"slug", "name"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "relocate"."locations" .* ON CONFLICT \("slug"\) DO UPDATE SET "name" = EXCLUDED."name"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "relocate.locations",
		Columns:      []string{"slug", "name"},
		ConflictKeys: []string{"slug"},
	}, [][]any{{"a", "A"}, {"b", "B"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBulkUpsert_CopyErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_locations"}, []string{"slug"}).
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "locations",
		Columns:      []string{"slug"},
		ConflictKeys: []string{"slug"},
	}, [][]any{{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table for locations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSQLDoNothing(t *testing.T) {
	got := upsertSQL("locations", "tmp", []string{"slug"}, []string{"slug"}, nil)
	assert.Equal(t, `INSERT INTO "locations" ("slug") SELECT "slug" FROM "tmp" ON CONFLICT ("slug") DO NOTHING`, got)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"relocate.runs", `"relocate"."runs"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, identifier(tt.input).Sanitize())
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"id", "name", "value"})
	assert.Equal(t, `"id", "name", "value"`, result)
}

func TestNonConflictColumns(t *testing.T) {
	assert.Equal(t, []string{"name", "region"}, nonConflictColumns([]string{"slug", "name", "region"}, []string{"slug"}))
}
