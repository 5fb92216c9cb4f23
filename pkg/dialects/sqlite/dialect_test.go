package sqlite

import (
	"testing"

	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := SQLite

	require.NotNil(t, d)
	assert.Equal(t, "sqlite", d.Name)
	assert.Equal(t, "?", d.FormatPlaceholder(3))
	assert.Equal(t, "CAST(x AS INTEGER)", d.CastInteger("x"))
	assert.Equal(t, `"city"."id"`, d.Ident("city.ID"))

	registered, ok := dialect.Get("sqlite")
	require.True(t, ok)
	assert.Same(t, SQLite, registered)
}
