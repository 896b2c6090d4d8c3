package fluentsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/fluentsql"
)

func TestSelectBasics(t *testing.T) {
	t.Run("select all", func(t *testing.T) {
		sql, err := fluentsql.Select().From("foo").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `foo`", sql)
	})

	t.Run("projection with alias", func(t *testing.T) {
		sql, err := fluentsql.Select().
			From("users").
			AddField("id").
			AddField("full_name", "name").
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `id`, `full_name` AS `name` FROM `users`", sql)
	})

	t.Run("chained clauses render in fixed order", func(t *testing.T) {
		sql, err := fluentsql.Select().
			From("users").
			AddFields("id", "name").
			Where(fluentsql.Equal("age", 25)).
			OrderBy("salary", fluentsql.DESC).
			Limit(10).
			Offset(5).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `id`, `name` FROM `users` WHERE `age` = 25 ORDER BY `salary` DESC LIMIT 10 OFFSET 5", sql)
	})

	t.Run("every clause at once", func(t *testing.T) {
		sql, err := fluentsql.Select().
			From("orders", "o").
			LeftJoin("users", fluentsql.ColumnEqual("o.user_id", "users.id")).
			AddField("users.name").
			AddField("COUNT(*)", "orders").
			Where(fluentsql.GreaterThan("o.total", 100)).
			GroupBy("users.name").
			Having(fluentsql.GreaterThan("COUNT(*)", 2)).
			OrderBy("users.name").
			Limit(20).
			Offset(40).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT `users`.`name`, COUNT(*) AS `orders` FROM `orders` AS `o` "+
				"LEFT JOIN `users` ON `o`.`user_id` = `users`.`id` "+
				"WHERE `o`.`total` > 100 GROUP BY `users`.`name` HAVING COUNT(*) > 2 "+
				"ORDER BY `users`.`name` ASC LIMIT 20 OFFSET 40",
			sql)
	})

	t.Run("multiple wheres AND together", func(t *testing.T) {
		sql, err := fluentsql.Select().
			From("users").
			Where(fluentsql.Equal("active", true)).
			Where(fluentsql.NotNull("email")).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `active` = TRUE AND `email` IS NOT NULL", sql)
	})

	t.Run("distinct", func(t *testing.T) {
		sql, err := fluentsql.Select().Distinct().From("users").AddField("country").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT DISTINCT `country` FROM `users`", sql)
	})

	t.Run("order direction defaults to ASC", func(t *testing.T) {
		sql, err := fluentsql.Select().From("users").OrderBy("name").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` ORDER BY `name` ASC", sql)
	})
}

func TestSelectJoins(t *testing.T) {
	cases := []struct {
		name string
		join func(*fluentsql.SelectQuery) *fluentsql.SelectQuery
		want string
	}{
		{
			"inner",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.InnerJoin("b", fluentsql.ColumnEqual("a.id", "b.a_id"))
			},
			"SELECT * FROM `a` INNER JOIN `b` ON `a`.`id` = `b`.`a_id`",
		},
		{
			"left",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.LeftJoin("b", fluentsql.ColumnEqual("a.id", "b.a_id"))
			},
			"SELECT * FROM `a` LEFT JOIN `b` ON `a`.`id` = `b`.`a_id`",
		},
		{
			"right",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.RightJoin("b", fluentsql.ColumnEqual("a.id", "b.a_id"))
			},
			"SELECT * FROM `a` RIGHT JOIN `b` ON `a`.`id` = `b`.`a_id`",
		},
		{
			"full",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.FullJoin("b", fluentsql.ColumnEqual("a.id", "b.a_id"))
			},
			"SELECT * FROM `a` FULL JOIN `b` ON `a`.`id` = `b`.`a_id`",
		},
		{
			"no condition",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.Join("b")
			},
			"SELECT * FROM `a` INNER JOIN `b`",
		},
		{
			"multiple conditions AND together",
			func(q *fluentsql.SelectQuery) *fluentsql.SelectQuery {
				return q.Join("b",
					fluentsql.ColumnEqual("a.id", "b.a_id"),
					fluentsql.Equal("b.active", true))
			},
			"SELECT * FROM `a` INNER JOIN `b` ON (`a`.`id` = `b`.`a_id`) AND (`b`.`active` = TRUE)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := tc.join(fluentsql.Select().From("a")).ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tc.want, sql)
		})
	}
}

func TestSelectFieldManagement(t *testing.T) {
	base := fluentsql.Select().From("users").AddFields("id", "name")

	t.Run("Fields replaces the projection", func(t *testing.T) {
		sql, err := base.Fields(fluentsql.Field{Name: "email"}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `email` FROM `users`", sql)
	})

	t.Run("RemoveFields reverts to select all", func(t *testing.T) {
		sql, err := base.RemoveFields().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users`", sql)
	})

	t.Run("RemoveGroupBy and RemoveOrderBy clear clauses", func(t *testing.T) {
		q := base.GroupBy("name").OrderBy("id", fluentsql.DESC)
		sql, err := q.RemoveGroupBy().RemoveOrderBy().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `id`, `name` FROM `users`", sql)
	})
}

func TestSelectLimitOffset(t *testing.T) {
	t.Run("zero values still render", func(t *testing.T) {
		sql, err := fluentsql.Select().From("users").Limit(0).Offset(0).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` LIMIT 0 OFFSET 0", sql)
	})

	t.Run("clearing removes the clause", func(t *testing.T) {
		q := fluentsql.Select().From("users").Limit(10).Offset(5)
		sql, err := q.ClearLimit().ClearOffset().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users`", sql)
	})
}

func TestSelectUnion(t *testing.T) {
	a := fluentsql.Select().From("a")
	b := fluentsql.Select().From("b")

	t.Run("union distinct by default", func(t *testing.T) {
		sql, err := a.Union(b).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "(SELECT * FROM `a`) UNION (SELECT * FROM `b`)", sql)
	})

	t.Run("union all", func(t *testing.T) {
		sql, err := a.Union(b, fluentsql.UnionAll).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "(SELECT * FROM `a`) UNION ALL (SELECT * FROM `b`)", sql)
	})

	t.Run("unions wrap left to right", func(t *testing.T) {
		c := fluentsql.Select().From("c")
		sql, err := a.Union(b).Union(c, fluentsql.UnionAll).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "((SELECT * FROM `a`) UNION (SELECT * FROM `b`)) UNION ALL (SELECT * FROM `c`)", sql)
	})

	t.Run("nil union target fails", func(t *testing.T) {
		_, err := a.Union(nil).ToSQL()
		assert.ErrorContains(t, err, "nil query")
	})
}

func TestSelectErrors(t *testing.T) {
	t.Run("no table", func(t *testing.T) {
		_, err := fluentsql.Select().ToSQL()
		assert.ErrorIs(t, err, fluentsql.ErrNoTable)

		_, err = fluentsql.Select().Table()
		assert.ErrorIs(t, err, fluentsql.ErrNoTable)
	})

	t.Run("unsupported table source", func(t *testing.T) {
		_, err := fluentsql.Select().From(42).ToSQL()
		assert.ErrorContains(t, err, "unsupported table source type int")
	})

	t.Run("nil where condition", func(t *testing.T) {
		_, err := fluentsql.Select().From("users").Where(nil).ToSQL()
		assert.ErrorContains(t, err, "nil condition")
	})

	t.Run("errors stick through later calls", func(t *testing.T) {
		q := fluentsql.Select().From(42).Where(fluentsql.Equal("a", 1)).Limit(3)
		_, err := q.ToSQL()
		assert.ErrorContains(t, err, "unsupported table source")

		_, err = q.Serialize()
		assert.ErrorContains(t, err, "unsupported table source")
	})
}

func TestSelectFlavors(t *testing.T) {
	q := fluentsql.Select().From("users").Where(fluentsql.Equal("age", 25))

	cases := []struct {
		flavor fluentsql.Flavor
		want   string
	}{
		{fluentsql.MySQL, "SELECT * FROM `users` WHERE `age` = 25"},
		{fluentsql.Postgres, `SELECT * FROM "users" WHERE "age" = 25`},
		{fluentsql.SQLite, `SELECT * FROM "users" WHERE "age" = 25`},
		{fluentsql.SQLServer, "SELECT * FROM [users] WHERE [age] = 25"},
		{fluentsql.Cassandra, `SELECT * FROM "users" WHERE "age" = 25`},
	}

	for _, tc := range cases {
		t.Run(tc.flavor.Name(), func(t *testing.T) {
			sql, err := q.ToSQL(tc.flavor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sql)
		})
	}
}
