// Package fluentsql builds SQL statements as an immutable abstract syntax
// tree and renders them to SQL text through pluggable dialect flavors.
//
// Queries are assembled from factory entry points and chained builder calls.
// Every builder call returns a new, structurally independent query; the
// receiver and all previously returned queries are never modified, so a
// shared base query can safely branch into variants:
//
//	base := fluentsql.Select().From("users")
//	active := base.Where(fluentsql.Equal("active", true))
//	recent := base.OrderBy("created_at", fluentsql.DESC).Limit(10)
//
//	sql, err := active.ToSQL()
//	// sql: SELECT * FROM `users` WHERE `active` = TRUE
//
// # Flavors
//
// Rendering routes every identifier through a Flavor, the dialect strategy
// for escaping. MySQL is the default; Postgres, SQLite, SQLServer, and
// Cassandra ship built in, and FlavorByName resolves registered flavors by
// short name:
//
//	sql, err := active.ToSQL(fluentsql.Postgres)
//	// sql: SELECT * FROM "users" WHERE "active" = TRUE
//
// Strings that are not plain identifiers pass through escaping verbatim, so
// pre-formatted fragments such as "COUNT(*)" can stand wherever a column is
// expected.
//
// # Serialization
//
// Every AST node serializes to a JSON value tagged with a "type"
// discriminator and reconstructs losslessly: a deserialized node renders
// identical SQL under every flavor. Queries can therefore be persisted or
// sent across process boundaries:
//
//	text, err := active.Serialize()
//	node, err := fluentsql.Deserialize(text)
//	query := node.(*fluentsql.SelectQuery)
//
// The package only constructs and renders syntax. It does not execute SQL,
// hold connections, or validate that referenced tables and columns exist.
package fluentsql

import (
	"encoding/json"
	"errors"
)

// Node is implemented by every AST node: tables, joins, conditions, and the
// SELECT/INSERT/UPDATE/DELETE statement roots. Nodes marshal to type-tagged
// JSON objects that Deserialize reconstructs.
type Node interface {
	json.Marshaler

	// Serialize returns the node encoded as a JSON string.
	Serialize() (string, error)
}

// ErrNoTable is returned when the primary table of a statement is read or
// rendered before any table was defined.
var ErrNoTable = errors.New("no table defined")

// ErrUnknownType is returned when deserialization meets a type tag that no
// known node matches, typically a version-skew problem.
var ErrUnknownType = errors.New("unknown node type")
