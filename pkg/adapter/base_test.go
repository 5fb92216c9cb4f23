package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/worldpop/pkg/core"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		args      []any
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE country").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE country (code CHAR(3))",
		},
		{
			name:    "exec with args",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM city").
					WithArgs("FRA").
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			sql:  "DELETE FROM city WHERE countrycode = ?",
			args: []any{"FRA"},
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql, tt.args...)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		args      []any
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"code", "name"}).
					AddRow("FRA", "France").
					AddRow("DEU", "Germany")
				mock.ExpectQuery("SELECT").WithArgs("Europe").WillReturnRows(rows)
			},
			sql:  "SELECT code, name FROM country WHERE continent = ?",
			args: []any{"Europe"},
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			rows, err := base.Query(ctx, tt.sql, tt.args...)
			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, rows)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, rows)
				defer func() { _ = rows.Close() }()
			}
		})
	}
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.False(t, base.IsConnected())
	assert.Nil(t, base.SQLDB())
	assert.ErrorIs(t, base.Ping(context.Background()), ErrNotConnected)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	base.DB = db

	assert.True(t, base.IsConnected())
	assert.Same(t, db, base.SQLDB())
}

func TestBuildInsert(t *testing.T) {
	question := dialect.NewDialect("q").Build()
	dollar := dialect.New(&core.DialectConfig{
		Name:        "d",
		Identifiers: question.Identifiers,
		Placeholder: core.PlaceholderDollar,
	}).Build()

	assert.Equal(t,
		`INSERT INTO "city" ("id", "name", "countrycode") VALUES (?, ?, ?)`,
		BuildInsert(question, "city", []string{"ID", "Name", " CountryCode"}))
	assert.Equal(t,
		`INSERT INTO "country" ("code", "population") VALUES ($1, $2)`,
		BuildInsert(dollar, "country", []string{"code", "population"}))
}

func TestBaseSQLAdapter_InsertCSV(t *testing.T) {
	d := dialect.NewDialect("test").Build()
	path := filepath.Join(t.TempDir(), "city.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,population\n1,Kabul,1780000\n2,Nowhere,\n"), 0o600))

	t.Run("inserts rows in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO "city"`)
		prep.ExpectExec().WithArgs("1", "Kabul", "1780000").WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WithArgs("2", "Nowhere", nil).WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		base := &BaseSQLAdapter{DB: db}
		require.NoError(t, base.InsertCSV(context.Background(), d, "city", path))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO "city"`)
		prep.ExpectExec().WillReturnError(assert.AnError)
		mock.ExpectRollback()

		base := &BaseSQLAdapter{DB: db}
		err = base.InsertCSV(context.Background(), d, "city", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing file", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		base := &BaseSQLAdapter{DB: db}
		err = base.InsertCSV(context.Background(), d, "city", filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorContains(t, err, "failed to open CSV file")
	})
}
