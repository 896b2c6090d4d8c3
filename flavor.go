package fluentsql

import (
	"fmt"
	"strings"
	"sync"
)

// Flavor is the dialect strategy consulted for identifier escaping during
// rendering. Implementations must be stateless: a single Flavor instance is
// shared by every query rendered against it, possibly concurrently.
type Flavor interface {
	// Name returns the registry key for the flavor, e.g. "mysql".
	Name() string

	// EscapeColumn escapes a bare column identifier. Dot-qualified names
	// ("u.id") are escaped per part. Anything that is not a plain
	// identifier is treated as a pre-formatted SQL fragment and returned
	// verbatim; "*" is never quoted.
	EscapeColumn(name string) string

	// EscapeTable escapes a table reference by name.
	EscapeTable(name string) string
}

// Built-in flavors. MySQL is the default.
var (
	MySQL     Flavor = quotedFlavor{name: "mysql", open: "`", close: "`"}
	Postgres  Flavor = quotedFlavor{name: "postgres", open: `"`, close: `"`}
	SQLite    Flavor = quotedFlavor{name: "sqlite", open: `"`, close: `"`}
	SQLServer Flavor = quotedFlavor{name: "sqlserver", open: "[", close: "]"}
	Cassandra Flavor = quotedFlavor{name: "cassandra", open: `"`, close: `"`}
)

// DefaultFlavor is used when rendering without an explicit flavor argument.
var DefaultFlavor = MySQL

var (
	flavorsMu sync.RWMutex
	flavors   = map[string]Flavor{
		MySQL.Name():     MySQL,
		Postgres.Name():  Postgres,
		SQLite.Name():    SQLite,
		SQLServer.Name(): SQLServer,
		Cassandra.Name(): Cassandra,
	}
)

// RegisterFlavor adds a flavor to the registry under its own name,
// replacing any flavor previously registered under that name.
func RegisterFlavor(f Flavor) {
	flavorsMu.Lock()
	defer flavorsMu.Unlock()
	flavors[f.Name()] = f
}

// FlavorByName looks up a registered flavor by its short name.
func FlavorByName(name string) (Flavor, error) {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()
	f, ok := flavors[name]
	if !ok {
		return nil, fmt.Errorf("unknown flavor %q", name)
	}
	return f, nil
}

// pickFlavor resolves the variadic trailing flavor argument used by all
// ToSQL methods.
func pickFlavor(flavor []Flavor) Flavor {
	if len(flavor) > 0 && flavor[0] != nil {
		return flavor[0]
	}
	return DefaultFlavor
}

// quotedFlavor wraps plain identifiers in the dialect's quote pair.
type quotedFlavor struct {
	name  string
	open  string
	close string
}

func (f quotedFlavor) Name() string { return f.name }

func (f quotedFlavor) EscapeColumn(name string) string { return f.escape(name) }

func (f quotedFlavor) EscapeTable(name string) string { return f.escape(name) }

func (f quotedFlavor) escape(name string) string {
	if name == "" || name == "*" || !isPlainIdentifier(name) {
		return name
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = f.open + part + f.close
	}
	return strings.Join(parts, ".")
}

// isPlainIdentifier reports whether s consists solely of identifier
// characters and dots. Anything else is an opaque SQL fragment.
func isPlainIdentifier(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return false
		}
	}
	return s != ""
}
