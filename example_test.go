package fluentsql_test

import (
	"fmt"

	"github.com/zoobzio/fluentsql"
)

func ExampleSelect() {
	sql, _ := fluentsql.Select().From("foo").ToSQL()
	fmt.Println(sql)
	// Output: SELECT * FROM `foo`
}

func ExampleSelectQuery_Where() {
	sql, _ := fluentsql.Select().
		From("users").
		AddFields("id", "name").
		Where(fluentsql.Equal("age", 25)).
		OrderBy("salary", fluentsql.DESC).
		Limit(10).
		ToSQL()
	fmt.Println(sql)
	// Output: SELECT `id`, `name` FROM `users` WHERE `age` = 25 ORDER BY `salary` DESC LIMIT 10
}

func ExampleSelectQuery_ToSQL_flavors() {
	q := fluentsql.Select().From("users").Where(fluentsql.NotNull("email"))

	mysql, _ := q.ToSQL()
	postgres, _ := q.ToSQL(fluentsql.Postgres)
	fmt.Println(mysql)
	fmt.Println(postgres)
	// Output:
	// SELECT * FROM `users` WHERE `email` IS NOT NULL
	// SELECT * FROM "users" WHERE "email" IS NOT NULL
}

func ExampleAnd() {
	cond := fluentsql.And(
		fluentsql.Equal("active", true),
		fluentsql.Or(
			fluentsql.GreaterThan("age", 18),
			fluentsql.Null("birthday"),
		),
	)
	fmt.Println(cond.ToSQL())
	// Output: (`active` = TRUE) AND ((`age` > 18) OR (`birthday` IS NULL))
}

func ExampleInsert() {
	sql, _ := fluentsql.Insert("users").
		Set("name", "alice").
		Set("age", 30).
		NextRow().
		Set("name", "bob").
		Set("age", 25).
		ToSQL()
	fmt.Println(sql)
	// Output: INSERT INTO `users` (`name`, `age`) VALUES ('alice', 30), ('bob', 25)
}

func ExampleDeserialize() {
	original := fluentsql.Select().From("users").Where(fluentsql.Equal("id", 7))

	text, _ := original.Serialize()
	node, _ := fluentsql.Deserialize(text)

	sql, _ := node.(*fluentsql.SelectQuery).ToSQL()
	fmt.Println(sql)
	// Output: SELECT * FROM `users` WHERE `id` = 7
}
