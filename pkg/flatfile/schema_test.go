package flatfile

import (
	"errors"
	"testing"
)

func TestNewSchemaRejectsBadShapes(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name   string
		schema string
		fields []string
	}{
		{name: "empty name", schema: "", fields: []string{"id"}},
		{name: "no fields", schema: "things", fields: nil},
		{name: "blank field", schema: "things", fields: []string{"id", " "}},
		{name: "duplicate field", schema: "things", fields: []string{"id", "id"}},
	}
	for _, testCase := range cases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			_, err := NewSchema(testCase.schema, testCase.fields...)
			if !errors.Is(err, ErrInvalidSchema) {
				test.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(test *testing.T) {
	test.Parallel()
	schema := testSchema(test)
	rows := []Row{
		{"id": "1", "color": "red", "size": "10"},
		{"id": "2", "color": "", "size": "0"},
		{"id": "3", "color": "has,comma and \"quotes\"", "size": "-5"},
	}
	for _, row := range rows {
		record, err := schema.Encode(row)
		if err != nil {
			test.Fatalf("encode %v: %v", row, err)
		}
		decoded, err := schema.Decode(record)
		if err != nil {
			test.Fatalf("decode %v: %v", record, err)
		}
		assertRowEqual(test, decoded, row)
	}
}

func TestEncodeRejectsMissingAndExtraFields(test *testing.T) {
	test.Parallel()
	schema := testSchema(test)

	_, err := schema.Encode(Row{"id": "1", "color": "red"})
	if !errors.Is(err, ErrRowShape) {
		test.Fatalf("expected ErrRowShape for missing field, got %v", err)
	}
	_, err = schema.Encode(Row{"id": "1", "color": "red", "size": "1", "weight": "9"})
	if !errors.Is(err, ErrRowShape) {
		test.Fatalf("expected ErrRowShape for extra field, got %v", err)
	}
	_, err = schema.Encode(Row{"id": "1", "shade": "red", "size": "1"})
	if !errors.Is(err, ErrRowShape) {
		test.Fatalf("expected ErrRowShape for renamed field, got %v", err)
	}
}

func TestDecodeRejectsShortRecord(test *testing.T) {
	test.Parallel()
	schema := testSchema(test)
	_, err := schema.Decode([]string{"1", "red"})
	if !errors.Is(err, ErrRowShape) {
		test.Fatalf("expected ErrRowShape, got %v", err)
	}
}

func TestMatchesHeader(test *testing.T) {
	test.Parallel()
	schema := testSchema(test)
	if !schema.MatchesHeader([]string{"id", "color", "size"}) {
		test.Fatal("expected matching header")
	}
	if schema.MatchesHeader([]string{"id", "size", "color"}) {
		test.Fatal("field order must matter")
	}
	if schema.MatchesHeader([]string{"id", "color"}) {
		test.Fatal("short header must not match")
	}
}
