package postgres

import (
	"testing"

	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := Postgres

	require.NotNil(t, d)
	assert.Equal(t, "postgres", d.Name)
	assert.Equal(t, "public", d.DefaultSchema)
	assert.Equal(t, "$1", d.FormatPlaceholder(1))
	assert.Equal(t, "$2", d.FormatPlaceholder(2))
	assert.Equal(t, "CAST(x AS BIGINT)", d.CastInteger("x"))
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("postgres")
	require.True(t, ok, "postgres dialect should be registered")
	assert.Same(t, Postgres, d)
}

func TestIdentifierQuoting(t *testing.T) {
	assert.Equal(t, `"city"."countrycode"`, Postgres.Ident("city.CountryCode"))
	assert.True(t, Postgres.IsReservedWord("USER"))
	assert.False(t, Postgres.IsReservedWord("continent"))
}
