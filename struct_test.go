package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Addr and Doc are a hand-written struct pair exercising nesting, slices,
// and maps, round-tripped through Marshal/Unmarshal.
type Addr struct {
	City string `toon:"city"`
	Zip  string `toon:"zip,omitempty"`
}

type Doc struct {
	Name    string         `toon:"name"`
	Age     int            `toon:"age"`
	Active  bool           `toon:"active"`
	Tags    []string       `toon:"tags,omitempty"`
	Extra   map[string]any `toon:"extra,omitempty"`
	Address Addr           `toon:"address"`
}

func TestStruct(t *testing.T) {
	in := Doc{
		Name:   "Ada Lovelace",
		Age:    36,
		Active: true,
		Tags:   []string{"math", "computing"},
		Address: Addr{
			City: "London",
		},
	}

	marshalled, err := Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Doc
	if err := Unmarshal(marshalled, &out); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	assert.Equal(t, in, out, "round trip through Marshal/Unmarshal should be lossless")
}

// TestStructTags tests the struct tag functionality including renaming, omitempty, and skipping.
func TestStructTags(t *testing.T) {
	t.Run("field_renaming", func(t *testing.T) {
		type TestStruct struct {
			FieldName    string `toon:"custom_name"`
			AnotherField int    `toon:"another_custom"`
		}

		data := TestStruct{
			FieldName:    "value1",
			AnotherField: 42,
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.Contains(t, toonStr, "custom_name")
		assert.Contains(t, toonStr, "another_custom")
		assert.NotContains(t, toonStr, "FieldName")
		assert.NotContains(t, toonStr, "AnotherField")
	})

	t.Run("omitempty_with_zero_values", func(t *testing.T) {
		type TestStruct struct {
			IncludedString string `toon:"included_string"`
			OmittedString  string `toon:"omitted_string,omitempty"`
			OmittedInt     int    `toon:"omitted_int,omitempty"`
			OmittedBool    bool   `toon:"omitted_bool,omitempty"`
			IncludedInt    int    `toon:"included_int"`
			IncludedBool   bool   `toon:"included_bool"`
		}

		data := TestStruct{
			IncludedString: "present",
			OmittedString:  "",
			OmittedInt:     0,
			OmittedBool:    false,
			IncludedInt:    0,
			IncludedBool:   false,
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.Contains(t, toonStr, "included_string")
		assert.Contains(t, toonStr, "included_int")
		assert.Contains(t, toonStr, "included_bool")
		assert.NotContains(t, toonStr, "omitted_string")
		assert.NotContains(t, toonStr, "omitted_int")
		assert.NotContains(t, toonStr, "omitted_bool")
	})

	t.Run("omitempty_with_non_zero_values", func(t *testing.T) {
		type TestStruct struct {
			IncludedString string `toon:"included_string,omitempty"`
			IncludedInt    int    `toon:"included_int,omitempty"`
			IncludedBool   bool   `toon:"included_bool,omitempty"`
		}

		data := TestStruct{
			IncludedString: "present",
			IncludedInt:    42,
			IncludedBool:   true,
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.Contains(t, toonStr, "included_string")
		assert.Contains(t, toonStr, "included_int")
		assert.Contains(t, toonStr, "included_bool")
	})

	t.Run("skip_field_with_dash", func(t *testing.T) {
		type TestStruct struct {
			IncludedField string `toon:"included"`
			SkippedField  string `toon:"-"`
			AnotherField  int    `toon:"another"`
		}

		data := TestStruct{
			IncludedField: "value1",
			SkippedField:  "should not appear",
			AnotherField:  42,
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.Contains(t, toonStr, "included")
		assert.Contains(t, toonStr, "another")
		assert.NotContains(t, toonStr, "SkippedField")
		assert.NotContains(t, toonStr, "should not appear")
	})

	t.Run("omitempty_with_slices_and_maps", func(t *testing.T) {
		type TestStruct struct {
			EmptySlice    []string          `toon:"empty_slice,omitempty"`
			NonEmptySlice []string          `toon:"non_empty_slice,omitempty"`
			EmptyMap      map[string]string `toon:"empty_map,omitempty"`
			NonEmptyMap   map[string]string `toon:"non_empty_map,omitempty"`
		}

		data := TestStruct{
			EmptySlice:    []string{},
			NonEmptySlice: []string{"item1", "item2"},
			EmptyMap:      map[string]string{},
			NonEmptyMap:   map[string]string{"key": "value"},
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.NotRegexp(t, `(^|\n)\s*empty_slice\s*[:\[]`, toonStr)
		assert.NotRegexp(t, `(^|\n)\s*empty_map\s*:`, toonStr)
		assert.Contains(t, toonStr, "non_empty_slice")
		assert.Contains(t, toonStr, "non_empty_map")
	})

	t.Run("omitempty_with_pointers", func(t *testing.T) {
		type TestStruct struct {
			NilPtr       *string `toon:"nil_ptr,omitempty"`
			NonNilPtr    *string `toon:"non_nil_ptr,omitempty"`
			NilPtrNoOmit *string `toon:"nil_ptr_no_omit"`
		}

		strValue := "value"
		data := TestStruct{
			NilPtr:       nil,
			NonNilPtr:    &strValue,
			NilPtrNoOmit: nil,
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.NotRegexp(t, `(^|\n)\s*nil_ptr\s*:`, toonStr)
		assert.Contains(t, toonStr, "non_nil_ptr")
		assert.Contains(t, toonStr, "nil_ptr_no_omit")
		assert.Contains(t, toonStr, "null")
	})

	t.Run("omitempty_with_nested_structs", func(t *testing.T) {
		type Nested struct {
			Value string `toon:"value"`
		}
		type TestStruct struct {
			EmptyNested    Nested `toon:"empty_nested,omitempty"`
			NonEmptyNested Nested `toon:"non_empty_nested,omitempty"`
		}

		data := TestStruct{
			EmptyNested:    Nested{Value: ""},
			NonEmptyNested: Nested{Value: "present"},
		}

		marshalled, err := Marshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		toonStr := string(marshalled)
		assert.Contains(t, toonStr, "non_empty_nested")
		assert.Contains(t, toonStr, "present")
	})

	t.Run("decode_with_renamed_fields", func(t *testing.T) {
		type TestStruct struct {
			FieldName    string `toon:"custom_name"`
			AnotherField int    `toon:"another_custom"`
		}

		toonData := `custom_name: value1
another_custom: 42`

		var result TestStruct
		err := Unmarshal([]byte(toonData), &result)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assert.Equal(t, "value1", result.FieldName)
		assert.Equal(t, 42, result.AnotherField)
	})

	t.Run("decode_with_skipped_fields", func(t *testing.T) {
		type TestStruct struct {
			IncludedField string `toon:"included"`
			SkippedField  string `toon:"-"`
		}

		toonData := `included: value`

		var result TestStruct
		err := Unmarshal([]byte(toonData), &result)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assert.Equal(t, "value", result.IncludedField)
		assert.Equal(t, "", result.SkippedField)
	})

	t.Run("round_trip_with_tags", func(t *testing.T) {
		type TestStruct struct {
			RenamedField string `toon:"renamed"`
			OmitEmpty    int    `toon:"omit_empty,omitempty"`
			Skipped      string `toon:"-"`
			NormalField  string `toon:"normal"`
		}

		original := TestStruct{
			RenamedField: "value1",
			OmitEmpty:    0,
			Skipped:      "should not appear",
			NormalField:  "value2",
		}

		marshalled, err := Marshal(original)
		if err != nil {
			t.Fatalf("unexpected error marshalling: %v", err)
		}

		var result TestStruct
		err = Unmarshal(marshalled, &result)
		if err != nil {
			t.Fatalf("unexpected error unmarshalling: %v", err)
		}

		assert.Equal(t, original.RenamedField, result.RenamedField)
		assert.Equal(t, original.NormalField, result.NormalField)
		assert.Equal(t, 0, result.OmitEmpty)
		assert.Equal(t, "", result.Skipped)
	})
}
