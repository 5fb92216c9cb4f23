package mysql

import (
	"testing"

	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := MySQL

	require.NotNil(t, d)
	assert.Equal(t, "mysql", d.Name)
	assert.Equal(t, "`", d.Identifiers.Quote)
	assert.Equal(t, "?", d.FormatPlaceholder(2))
	assert.Equal(t, "CAST(x AS SIGNED)", d.CastInteger("x"))
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("mysql")
	require.True(t, ok, "mysql dialect should be registered")
	assert.Same(t, MySQL, d)
}

func TestIdentifierQuoting(t *testing.T) {
	d := MySQL

	// Case is preserved; backticks are doubled inside names
	assert.Equal(t, "`CountryCode`", d.Ident("CountryCode"))
	assert.Equal(t, "`country`.`Population`", d.Ident("country.Population"))
	assert.Equal(t, "`table``name`", d.QuoteIdentifier("table`name"))
}

func TestReservedWords(t *testing.T) {
	assert.True(t, MySQL.IsReservedWord("order"))
	assert.True(t, MySQL.IsReservedWord("rank"))
	assert.False(t, MySQL.IsReservedWord("district"))
}
