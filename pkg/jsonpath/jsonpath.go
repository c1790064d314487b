// Package jsonpath extracts fields from JSON documents by dotted path without
// binding the whole document to a fixed struct.
package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
)

// Status is the outcome of a lookup.
type Status int

const (
	// Found means the path resolved to a value of an acceptable type.
	Found Status = iota
	// Missing means some segment of the path does not exist or is null.
	Missing
	// Malformed means the value exists but has the wrong shape.
	Malformed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// Result describes a lookup of Path.
type Result struct {
	Status Status
	Path   string
	Raw    []byte
	Type   jsonparser.ValueType
	Err    error
}

func (r Result) Found() bool { return r.Status == Found }

func keys(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Lookup resolves a dotted path such as "data.category.items".
func Lookup(data []byte, path string) Result {
	res := Result{Path: path}
	raw, typ, _, err := jsonparser.Get(data, keys(path)...)
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
		res.Status = Missing
		return res
	case err != nil:
		res.Status = Malformed
		res.Err = fmt.Errorf("lookup %q: %w", path, err)
		return res
	case typ == jsonparser.Null || typ == jsonparser.NotExist:
		res.Status = Missing
		return res
	}
	res.Status = Found
	res.Raw = raw
	res.Type = typ
	return res
}

func malformed(r Result, want string) Result {
	r.Status = Malformed
	r.Err = fmt.Errorf("%q: expected %s, got %s", r.Path, want, r.Type)
	return r
}

// String returns a string value. Numbers are accepted and returned as their
// literal text so identifiers survive either encoding.
func String(data []byte, path string) (string, Result) {
	r := Lookup(data, path)
	if !r.Found() {
		return "", r
	}
	switch r.Type {
	case jsonparser.String:
		s, err := jsonparser.ParseString(r.Raw)
		if err != nil {
			r.Status = Malformed
			r.Err = fmt.Errorf("%q: %w", r.Path, err)
			return "", r
		}
		return s, r
	case jsonparser.Number:
		return string(r.Raw), r
	}
	return "", malformed(r, "string")
}

// Decimal returns an exact decimal from a JSON number or numeric string.
func Decimal(data []byte, path string) (decimal.Decimal, Result) {
	r := Lookup(data, path)
	if !r.Found() {
		return decimal.Zero, r
	}
	var text string
	switch r.Type {
	case jsonparser.Number:
		text = string(r.Raw)
	case jsonparser.String:
		s, err := jsonparser.ParseString(r.Raw)
		if err != nil {
			r.Status = Malformed
			r.Err = fmt.Errorf("%q: %w", r.Path, err)
			return decimal.Zero, r
		}
		text = strings.TrimSpace(s)
	default:
		return decimal.Zero, malformed(r, "number")
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		r.Status = Malformed
		r.Err = fmt.Errorf("%q: %w", r.Path, err)
		return decimal.Zero, r
	}
	return v, r
}

// Flag returns a boolean from a JSON boolean, a number (non-zero is true) or
// a numeric string.
func Flag(data []byte, path string) (bool, Result) {
	r := Lookup(data, path)
	if !r.Found() {
		return false, r
	}
	switch r.Type {
	case jsonparser.Boolean:
		v, err := jsonparser.ParseBoolean(r.Raw)
		if err != nil {
			r.Status = Malformed
			r.Err = fmt.Errorf("%q: %w", r.Path, err)
			return false, r
		}
		return v, r
	case jsonparser.Number, jsonparser.String:
		text := string(r.Raw)
		if r.Type == jsonparser.String {
			s, err := jsonparser.ParseString(r.Raw)
			if err != nil {
				r.Status = Malformed
				r.Err = fmt.Errorf("%q: %w", r.Path, err)
				return false, r
			}
			text = strings.TrimSpace(s)
		}
		n, err := decimal.NewFromString(text)
		if err != nil {
			r.Status = Malformed
			r.Err = fmt.Errorf("%q: %w", r.Path, err)
			return false, r
		}
		return !n.IsZero(), r
	}
	return false, malformed(r, "flag")
}

// EachItem calls fn for every element of the array at path and stops at the
// first error fn returns. A path that resolves to a non-array is Malformed.
func EachItem(data []byte, path string, fn func(index int, item []byte, typ jsonparser.ValueType) error) (Result, error) {
	r := Lookup(data, path)
	if !r.Found() {
		return r, nil
	}
	if r.Type != jsonparser.Array {
		return malformed(r, "array"), nil
	}

	var (
		index  int
		fnErr  error
		iterEr error
	)
	_, err := jsonparser.ArrayEach(r.Raw, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if fnErr != nil || iterEr != nil {
			return
		}
		if err != nil {
			iterEr = err
			return
		}
		fnErr = fn(index, value, typ)
		index++
	})
	if err == nil {
		err = iterEr
	}
	if err != nil {
		r.Status = Malformed
		r.Err = fmt.Errorf("%q: %w", r.Path, err)
		return r, nil
	}
	return r, fnErr
}
