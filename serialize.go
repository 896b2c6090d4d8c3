package fluentsql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type discriminator tags. These are the wire contract: previously
// serialized queries must keep deserializing, so tags never change.
const (
	tagTable       = "Table"
	tagJoin        = "Join"
	tagSelectQuery = "SelectQuery"
	tagDelete      = "Delete"
	tagUpdate      = "Update"
	tagInsert      = "Insert"

	tagEqual       = "Equal"
	tagNotEqual    = "NotEqual"
	tagGreaterThan = "GreaterThan"
	tagLessThan    = "LessThan"
	tagBetween     = "Between"
	tagIn          = "In"
	tagLike        = "Like"
	tagNotLike     = "NotLike"
	tagIsNull      = "IsNull"
	tagIsNotNull   = "IsNotNull"
	tagColumnEqual = "ColumnEqual"
	tagAnd         = "And"
	tagOr          = "Or"
)

// serializeNode renders any AST node to its JSON text form.
func serializeNode(n json.Marshaler) (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Deserialize reconstructs an AST node from its JSON text form. The node
// kind is dispatched on the "type" tag; an unrecognized tag fails with
// ErrUnknownType and malformed input fails with a wrapped parse error.
func Deserialize(text string) (Node, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, fmt.Errorf("deserialize: malformed JSON: %w", err)
	}
	decode, ok := nodeDecoders[probe.Type]
	if !ok {
		return nil, fmt.Errorf("deserialize: %w %q", ErrUnknownType, probe.Type)
	}
	n, err := decode(json.RawMessage(text))
	if err != nil {
		return nil, fmt.Errorf("deserialize: %w", err)
	}
	return n, nil
}

type nodeDecoder func(json.RawMessage) (Node, error)

// nodeDecoders is the exhaustive top-level dispatch table: one entry per
// type tag. Adding a node variant means adding its tag here.
var nodeDecoders = map[string]nodeDecoder{
	tagTable:       func(raw json.RawMessage) (Node, error) { return tableFromJSON(raw) },
	tagJoin:        func(raw json.RawMessage) (Node, error) { return joinFromJSON(raw) },
	tagSelectQuery: func(raw json.RawMessage) (Node, error) { return selectFromJSON(raw) },
	tagDelete:      func(raw json.RawMessage) (Node, error) { return deleteFromJSON(raw) },
	tagUpdate:      func(raw json.RawMessage) (Node, error) { return updateFromJSON(raw) },
	tagInsert:      func(raw json.RawMessage) (Node, error) { return insertFromJSON(raw) },

	tagEqual:       conditionNode,
	tagNotEqual:    conditionNode,
	tagGreaterThan: conditionNode,
	tagLessThan:    conditionNode,
	tagBetween:     conditionNode,
	tagIn:          conditionNode,
	tagLike:        conditionNode,
	tagNotLike:     conditionNode,
	tagIsNull:      conditionNode,
	tagIsNotNull:   conditionNode,
	tagColumnEqual: conditionNode,
	tagAnd:         conditionNode,
	tagOr:          conditionNode,
}

func conditionNode(raw json.RawMessage) (Node, error) { return conditionFromJSON(raw) }

// peekType reads the "type" tag of an encoded node.
func peekType(raw json.RawMessage) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.Type, nil
}

// decodeValue decodes a scalar literal, keeping numbers as json.Number so
// they render byte-identical after a round trip.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValues(raws []json.RawMessage) ([]any, error) {
	values := make([]any, len(raws))
	for i, raw := range raws {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

type conditionDecoder func(json.RawMessage) (Condition, error)

// conditionDecoders maps every condition tag to its decoder. The set is
// closed; an unrecognized tag is a version-skew error, never a guess.
var conditionDecoders map[string]conditionDecoder

func init() {
	conditionDecoders = map[string]conditionDecoder{
		tagEqual:       decodeCompare(tagEqual, "="),
		tagNotEqual:    decodeCompare(tagNotEqual, "<>"),
		tagGreaterThan: decodeCompare(tagGreaterThan, ">"),
		tagLessThan:    decodeCompare(tagLessThan, "<"),
		tagLike:        decodeCompare(tagLike, "LIKE"),
		tagNotLike:     decodeCompare(tagNotLike, "NOT LIKE"),
		tagBetween:     decodeBetween,
		tagIn:          decodeIn,
		tagIsNull:      decodeNull(false),
		tagIsNotNull:   decodeNull(true),
		tagColumnEqual: decodeColumnEqual,
		tagAnd:         decodeLogic(tagAnd, "AND"),
		tagOr:          decodeLogic(tagOr, "OR"),
	}
}

func conditionFromJSON(raw json.RawMessage) (Condition, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, fmt.Errorf("decode condition: %w", err)
	}
	decode, ok := conditionDecoders[tag]
	if !ok {
		return nil, fmt.Errorf("decode condition: %w %q", ErrUnknownType, tag)
	}
	return decode(raw)
}

func conditionsFromJSON(raws []json.RawMessage) ([]Condition, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	conditions := make([]Condition, len(raws))
	for i, raw := range raws {
		c, err := conditionFromJSON(raw)
		if err != nil {
			return nil, err
		}
		conditions[i] = c
	}
	return conditions, nil
}

func decodeCompare(tag, op string) conditionDecoder {
	return func(raw json.RawMessage) (Condition, error) {
		var dto struct {
			Column string          `json:"column"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("decode %s condition: %w", tag, err)
		}
		value, err := decodeValue(dto.Value)
		if err != nil {
			return nil, fmt.Errorf("decode %s condition value: %w", tag, err)
		}
		return &compareCondition{tag: tag, op: op, column: dto.Column, value: value}, nil
	}
}

func decodeBetween(raw json.RawMessage) (Condition, error) {
	var dto struct {
		Column string          `json:"column"`
		Low    json.RawMessage `json:"low"`
		High   json.RawMessage `json:"high"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode Between condition: %w", err)
	}
	low, err := decodeValue(dto.Low)
	if err != nil {
		return nil, fmt.Errorf("decode Between low bound: %w", err)
	}
	high, err := decodeValue(dto.High)
	if err != nil {
		return nil, fmt.Errorf("decode Between high bound: %w", err)
	}
	return &betweenCondition{column: dto.Column, low: low, high: high}, nil
}

func decodeIn(raw json.RawMessage) (Condition, error) {
	var dto struct {
		Column string            `json:"column"`
		Values []json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode In condition: %w", err)
	}
	values, err := decodeValues(dto.Values)
	if err != nil {
		return nil, fmt.Errorf("decode In values: %w", err)
	}
	return &inCondition{column: dto.Column, values: values}, nil
}

func decodeNull(not bool) conditionDecoder {
	return func(raw json.RawMessage) (Condition, error) {
		var dto struct {
			Column string `json:"column"`
		}
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("decode null condition: %w", err)
		}
		return &nullCondition{column: dto.Column, not: not}, nil
	}
}

func decodeColumnEqual(raw json.RawMessage) (Condition, error) {
	var dto struct {
		Left  string `json:"left"`
		Right string `json:"right"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode ColumnEqual condition: %w", err)
	}
	return &columnCondition{left: dto.Left, right: dto.Right}, nil
}

func decodeLogic(tag, op string) conditionDecoder {
	return func(raw json.RawMessage) (Condition, error) {
		var dto struct {
			Conditions []json.RawMessage `json:"conditions"`
		}
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("decode %s condition: %w", tag, err)
		}
		children, err := conditionsFromJSON(dto.Conditions)
		if err != nil {
			return nil, err
		}
		return &logicCondition{tag: tag, op: op, conditions: children}, nil
	}
}

func tableFromJSON(raw json.RawMessage) (*Table, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("decode table: %w", ErrNoTable)
	}
	var dto struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Alias string          `json:"alias"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	if dto.Type != tagTable {
		return nil, fmt.Errorf("decode table: %w %q", ErrUnknownType, dto.Type)
	}
	t := &Table{name: dto.Name, alias: dto.Alias}
	if len(dto.Query) > 0 {
		q, err := selectFromJSON(dto.Query)
		if err != nil {
			return nil, fmt.Errorf("decode table subquery: %w", err)
		}
		t.query = q
	}
	return t, nil
}

func joinFromJSON(raw json.RawMessage) (*Join, error) {
	var dto struct {
		Type      string          `json:"type"`
		Table     json.RawMessage `json:"table"`
		Kind      string          `json:"kind"`
		Condition json.RawMessage `json:"condition"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode join: %w", err)
	}
	if dto.Type != tagJoin {
		return nil, fmt.Errorf("decode join: %w %q", ErrUnknownType, dto.Type)
	}
	kind := JoinKind(dto.Kind)
	switch kind {
	case InnerJoin, LeftJoin, RightJoin, FullJoin:
	default:
		return nil, fmt.Errorf("decode join: unknown join kind %q", dto.Kind)
	}
	table, err := tableFromJSON(dto.Table)
	if err != nil {
		return nil, err
	}
	j := &Join{table: table, kind: kind}
	if len(dto.Condition) > 0 {
		on, err := conditionFromJSON(dto.Condition)
		if err != nil {
			return nil, err
		}
		j.on = on
	}
	return j, nil
}

// unionJSON is the wire shape of one union pair.
type unionJSON struct {
	Query *SelectQuery `json:"query"`
	Kind  UnionKind    `json:"kind"`
}

func selectFromJSON(raw json.RawMessage) (*SelectQuery, error) {
	var dto struct {
		Type     string            `json:"type"`
		Tables   []json.RawMessage `json:"tables"`
		Joins    []json.RawMessage `json:"joins"`
		Fields   []Field           `json:"fields"`
		Wheres   []json.RawMessage `json:"wheres"`
		Havings  []json.RawMessage `json:"havings"`
		GroupBy  []string          `json:"groupBy"`
		Orders   []Order           `json:"orders"`
		Limit    *int              `json:"limit"`
		Offset   *int              `json:"offset"`
		Distinct bool              `json:"distinct"`
		Unions   []struct {
			Query json.RawMessage `json:"query"`
			Kind  string          `json:"kind"`
		} `json:"unions"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode select query: %w", err)
	}
	if dto.Type != tagSelectQuery {
		return nil, fmt.Errorf("decode select query: %w %q", ErrUnknownType, dto.Type)
	}

	q := &SelectQuery{
		fields:   dto.Fields,
		groupBys: dto.GroupBy,
		orders:   dto.Orders,
		limit:    dto.Limit,
		offset:   dto.Offset,
		distinct: dto.Distinct,
	}
	for _, rawTable := range dto.Tables {
		t, err := tableFromJSON(rawTable)
		if err != nil {
			return nil, err
		}
		q.tables = append(q.tables, t)
	}
	for _, rawJoin := range dto.Joins {
		j, err := joinFromJSON(rawJoin)
		if err != nil {
			return nil, err
		}
		q.joins = append(q.joins, j)
	}
	var err error
	if q.wheres, err = conditionsFromJSON(dto.Wheres); err != nil {
		return nil, err
	}
	if q.havings, err = conditionsFromJSON(dto.Havings); err != nil {
		return nil, err
	}
	for _, u := range dto.Unions {
		kind := UnionKind(u.Kind)
		switch kind {
		case UnionDistinct, UnionAll:
		default:
			return nil, fmt.Errorf("decode select query: unknown union kind %q", u.Kind)
		}
		other, err := selectFromJSON(u.Query)
		if err != nil {
			return nil, err
		}
		q.unions = append(q.unions, union{query: other, kind: kind})
	}
	return q, nil
}

// assignmentJSON is the wire shape of one "column = value" pair.
type assignmentJSON struct {
	Column string          `json:"column"`
	Value  json.RawMessage `json:"value"`
}

func decodeAssignments(dtos []assignmentJSON) ([]assignment, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	sets := make([]assignment, len(dtos))
	for i, dto := range dtos {
		value, err := decodeValue(dto.Value)
		if err != nil {
			return nil, fmt.Errorf("decode assignment %q: %w", dto.Column, err)
		}
		sets[i] = assignment{column: dto.Column, value: value}
	}
	return sets, nil
}

func deleteFromJSON(raw json.RawMessage) (*DeleteQuery, error) {
	var dto struct {
		Type   string            `json:"type"`
		Table  json.RawMessage   `json:"table"`
		Wheres []json.RawMessage `json:"wheres"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode delete query: %w", err)
	}
	if dto.Type != tagDelete {
		return nil, fmt.Errorf("decode delete query: %w %q", ErrUnknownType, dto.Type)
	}
	table, err := tableFromJSON(dto.Table)
	if err != nil {
		return nil, err
	}
	q := &DeleteQuery{table: table}
	if q.wheres, err = conditionsFromJSON(dto.Wheres); err != nil {
		return nil, err
	}
	return q, nil
}

func updateFromJSON(raw json.RawMessage) (*UpdateQuery, error) {
	var dto struct {
		Type   string            `json:"type"`
		Table  json.RawMessage   `json:"table"`
		Sets   []assignmentJSON  `json:"sets"`
		Wheres []json.RawMessage `json:"wheres"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode update query: %w", err)
	}
	if dto.Type != tagUpdate {
		return nil, fmt.Errorf("decode update query: %w %q", ErrUnknownType, dto.Type)
	}
	table, err := tableFromJSON(dto.Table)
	if err != nil {
		return nil, err
	}
	q := &UpdateQuery{table: table}
	if q.sets, err = decodeAssignments(dto.Sets); err != nil {
		return nil, err
	}
	if q.wheres, err = conditionsFromJSON(dto.Wheres); err != nil {
		return nil, err
	}
	return q, nil
}

func insertFromJSON(raw json.RawMessage) (*InsertQuery, error) {
	var dto struct {
		Type  string             `json:"type"`
		Table string             `json:"table"`
		Rows  [][]assignmentJSON `json:"rows"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode insert query: %w", err)
	}
	if dto.Type != tagInsert {
		return nil, fmt.Errorf("decode insert query: %w %q", ErrUnknownType, dto.Type)
	}
	q := &InsertQuery{table: dto.Table}
	for _, row := range dto.Rows {
		sets, err := decodeAssignments(row)
		if err != nil {
			return nil, err
		}
		q.rows = append(q.rows, sets)
	}
	return q, nil
}
