package fluentsql

import "encoding/json"

// defaultSubqueryAlias names a nested-query source when the caller supplied
// no alias, keeping the generated SQL valid.
const defaultSubqueryAlias = "sq"

// Table names a relation: either a literal table name or a nested
// SelectQuery, with an optional alias.
type Table struct {
	name  string
	query *SelectQuery
	alias string
}

// T creates a table reference with an optional alias.
func T(name string, alias ...string) *Table {
	t := &Table{name: name}
	if len(alias) > 0 {
		t.alias = alias[0]
	}
	return t
}

// Name returns the literal table name, or "" for a nested-query source.
func (t *Table) Name() string { return t.name }

// Alias returns the alias, or "" when none was set.
func (t *Table) Alias() string { return t.alias }

// TableName resolves the underlying relation name, recursing into a
// nested query's own primary table. It returns "" when the nested query has
// no table defined.
func (t *Table) TableName() string {
	if t.query != nil {
		primary, err := t.query.Table()
		if err != nil {
			return ""
		}
		return primary.TableName()
	}
	return t.name
}

// ToSQL renders the table reference. Nested-query sources render
// parenthesized and always aliased.
func (t *Table) ToSQL(flavor ...Flavor) (string, error) {
	f := pickFlavor(flavor)
	if t.query != nil {
		inner, err := t.query.ToSQL(f)
		if err != nil {
			return "", err
		}
		alias := t.alias
		if alias == "" {
			alias = defaultSubqueryAlias
		}
		return "(" + inner + ") AS " + f.EscapeColumn(alias), nil
	}
	sql := f.EscapeTable(t.name)
	if t.alias != "" {
		sql += " AS " + f.EscapeColumn(t.alias)
	}
	return sql, nil
}

func (t *Table) clone() *Table {
	cp := &Table{name: t.name, alias: t.alias}
	if t.query != nil {
		cp.query = t.query.clone()
	}
	return cp
}

// Clone returns a deep copy of the table reference.
func (t *Table) Clone() *Table { return t.clone() }

func (t *Table) encode() map[string]any {
	m := map[string]any{"type": tagTable}
	if t.query != nil {
		m["query"] = t.query
	} else {
		m["name"] = t.name
	}
	if t.alias != "" {
		m["alias"] = t.alias
	}
	return m
}

// MarshalJSON encodes the table as a type-tagged JSON object.
func (t *Table) MarshalJSON() ([]byte, error) { return json.Marshal(t.encode()) }

// Serialize returns the table encoded as a JSON string.
func (t *Table) Serialize() (string, error) { return serializeNode(t) }
