package fluentsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/fluentsql"
)

func TestFlavorEscaping(t *testing.T) {
	t.Run("MySQL uses backticks", func(t *testing.T) {
		assert.Equal(t, "`users`", fluentsql.MySQL.EscapeTable("users"))
		assert.Equal(t, "`age`", fluentsql.MySQL.EscapeColumn("age"))
	})

	t.Run("Postgres and Cassandra use double quotes", func(t *testing.T) {
		assert.Equal(t, `"users"`, fluentsql.Postgres.EscapeTable("users"))
		assert.Equal(t, `"events"`, fluentsql.Cassandra.EscapeTable("events"))
	})

	t.Run("SQLServer uses brackets", func(t *testing.T) {
		assert.Equal(t, "[users]", fluentsql.SQLServer.EscapeTable("users"))
	})

	t.Run("dot-qualified names escape per part", func(t *testing.T) {
		assert.Equal(t, "`u`.`id`", fluentsql.MySQL.EscapeColumn("u.id"))
		assert.Equal(t, `"public"."users"`, fluentsql.Postgres.EscapeTable("public.users"))
	})

	t.Run("star is never quoted", func(t *testing.T) {
		assert.Equal(t, "*", fluentsql.MySQL.EscapeColumn("*"))
	})

	t.Run("pre-formatted fragments pass through verbatim", func(t *testing.T) {
		assert.Equal(t, "COUNT(*)", fluentsql.MySQL.EscapeColumn("COUNT(*)"))
		assert.Equal(t, "DATE_ADD(created, INTERVAL 1 DAY)",
			fluentsql.MySQL.EscapeColumn("DATE_ADD(created, INTERVAL 1 DAY)"))
	})
}

func TestFlavorRegistry(t *testing.T) {
	t.Run("built-in flavors resolve by name", func(t *testing.T) {
		for _, name := range []string{"mysql", "postgres", "sqlite", "sqlserver", "cassandra"} {
			f, err := fluentsql.FlavorByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, f.Name())
		}
	})

	t.Run("unknown name fails", func(t *testing.T) {
		_, err := fluentsql.FlavorByName("oracle")
		assert.ErrorContains(t, err, "unknown flavor")
	})

	t.Run("registered flavors resolve", func(t *testing.T) {
		fluentsql.RegisterFlavor(upperFlavor{})
		f, err := fluentsql.FlavorByName("upper")
		require.NoError(t, err)
		assert.Equal(t, "USERS", f.EscapeTable("users"))
	})
}

// upperFlavor is a deliberately odd dialect used to prove the registry and
// the rendering path accept external flavors.
type upperFlavor struct{}

func (upperFlavor) Name() string { return "upper" }

func (upperFlavor) EscapeColumn(name string) string { return name }

func (upperFlavor) EscapeTable(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
