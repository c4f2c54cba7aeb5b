package flatfile

import (
	"fmt"
	"strings"
)

// Schema is the ordered field list defining one entity kind's row shape.
// Encoding and decoding are both keyed on it: every persisted row carries
// every declared field, in declaration order, at all times.
type Schema struct {
	name   string
	fields []string
}

// Row is one decoded record, keyed by field name.
type Row map[string]string

// NewSchema validates a schema name and its ordered field list.
func NewSchema(name string, fields ...string) (Schema, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return Schema{}, fmt.Errorf("%w: empty name", ErrInvalidSchema)
	}
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("%w: no fields", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(fields))
	normalized := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmedField := strings.TrimSpace(field)
		if trimmedField == "" {
			return Schema{}, fmt.Errorf("%w: empty field name", ErrInvalidSchema)
		}
		if _, duplicate := seen[trimmedField]; duplicate {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, trimmedField)
		}
		seen[trimmedField] = struct{}{}
		normalized = append(normalized, trimmedField)
	}
	return Schema{name: trimmedName, fields: normalized}, nil
}

// MustSchema builds a schema or panics; intended for package-level declarations.
func MustSchema(name string, fields ...string) Schema {
	schema, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Name returns the schema name.
func (schema Schema) Name() string {
	return schema.name
}

// Fields returns a copy of the ordered field list.
func (schema Schema) Fields() []string {
	return append([]string(nil), schema.fields...)
}

// Encode flattens a row into a record in schema field order.
// Every declared field must be present; no partial rows.
func (schema Schema) Encode(row Row) ([]string, error) {
	if len(row) != len(schema.fields) {
		return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrRowShape, schema.name, len(schema.fields), len(row))
	}
	record := make([]string, 0, len(schema.fields))
	for _, field := range schema.fields {
		value, present := row[field]
		if !present {
			return nil, fmt.Errorf("%w: %s row missing field %q", ErrRowShape, schema.name, field)
		}
		record = append(record, value)
	}
	return record, nil
}

// Decode rebuilds a row from a record read off disk.
func (schema Schema) Decode(record []string) (Row, error) {
	if len(record) != len(schema.fields) {
		return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrRowShape, schema.name, len(schema.fields), len(record))
	}
	row := make(Row, len(schema.fields))
	for position, field := range schema.fields {
		row[field] = record[position]
	}
	return row, nil
}

// MatchesHeader reports whether a file header names exactly this schema's
// fields in order.
func (schema Schema) MatchesHeader(header []string) bool {
	if len(header) != len(schema.fields) {
		return false
	}
	for position, field := range schema.fields {
		if header[position] != field {
			return false
		}
	}
	return true
}
