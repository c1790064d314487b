package jsonpath

import (
	"errors"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var doc = []byte(`{
	"data": {
		"category": {
			"items": [
				{"id": "1", "sku": 200, "flag": 1, "off": 0, "yes": true, "strflag": "1", "amount": 10.50, "stramount": "3.25", "name": "Café"},
				{"id": 2, "amount": "abc", "flag": "x", "nested": {"value": null}}
			],
			"title": "Weekly",
			"count": 2
		}
	}
}`)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Status
	}{
		{name: "container", path: "data.category.items", want: Found},
		{name: "leaf", path: "data.category.title", want: Found},
		{name: "root", path: "", want: Found},
		{name: "absent key", path: "data.category.products", want: Missing},
		{name: "absent parent", path: "payload.items", want: Missing},
		{name: "null", path: "data.category.items.[1].nested.value", want: Missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lookup(doc, tt.path)
			assert.Equal(t, tt.want, r.Status, r.Err)
			assert.Equal(t, tt.path, r.Path)
		})
	}
}

func TestTypedAccessors(t *testing.T) {
	item, _, _, err := jsonparser.Get(doc, "data", "category", "items", "[0]")
	require.NoError(t, err)

	s, r := String(item, "id")
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, "1", s)

	s, r = String(item, "sku")
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, "200", s)

	s, r = String(item, "name")
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, "Café", s)

	_, r = String(item, "yes")
	assert.Equal(t, Malformed, r.Status)
	assert.Error(t, r.Err)

	amount, r := Decimal(item, "amount")
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, "10.5", amount.String())

	amount, r = Decimal(item, "stramount")
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, "3.25", amount.String())

	_, r = Decimal(item, "missing")
	assert.Equal(t, Missing, r.Status)

	for path, want := range map[string]bool{"flag": true, "off": false, "yes": true, "strflag": true} {
		v, r := Flag(item, path)
		assert.Equal(t, Found, r.Status, path)
		assert.Equal(t, want, v, path)
	}

	bad, _, _, err := jsonparser.Get(doc, "data", "category", "items", "[1]")
	require.NoError(t, err)

	_, r = Decimal(bad, "amount")
	assert.Equal(t, Malformed, r.Status)
	_, r = Flag(bad, "flag")
	assert.Equal(t, Malformed, r.Status)
	_, r = Decimal(bad, "nested")
	assert.Equal(t, Malformed, r.Status)
	_, r = Flag(bad, "nested")
	assert.Equal(t, Malformed, r.Status)
}

func TestFlagRejectsNonDecimalStrings(t *testing.T) {
	for _, text := range []string{"NaN", "Inf", "-Infinity", "0x1p-2", ""} {
		v, r := Flag([]byte(`{"flag":"`+text+`"}`), "flag")
		assert.Equal(t, Malformed, r.Status, text)
		assert.False(t, v, text)
	}

	v, r := Flag([]byte(`{"flag":"0.0"}`), "flag")
	assert.Equal(t, Found, r.Status)
	assert.False(t, v)
}

func TestEachItem(t *testing.T) {
	var seen []int
	r, err := EachItem(doc, "data.category.items", func(i int, item []byte, typ jsonparser.ValueType) error {
		assert.Equal(t, jsonparser.Object, typ)
		seen = append(seen, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Found, r.Status)
	assert.Equal(t, []int{0, 1}, seen)

	stop := errors.New("stop")
	calls := 0
	_, err = EachItem(doc, "data.category.items", func(int, []byte, jsonparser.ValueType) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	r, err = EachItem(doc, "data.category.title", func(int, []byte, jsonparser.ValueType) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, Malformed, r.Status)

	r, err = EachItem(doc, "data.items", func(int, []byte, jsonparser.ValueType) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, Missing, r.Status)

	r, err = EachItem([]byte(`{"items": []}`), "items", func(int, []byte, jsonparser.ValueType) error {
		t.Fatal("unexpected item")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Found, r.Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "unknown", Status(9).String())
}
