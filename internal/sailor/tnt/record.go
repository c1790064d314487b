package tnt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/jsonpath"
	"github.com/shopspring/decimal"
)

const itemsPath = "data.category.items"

// record is one item of the weekly specials payload.
type record struct {
	id          string
	sku         string
	name        string
	weightUOM   string
	available   bool
	saleable    bool
	oldAmount   decimal.Decimal
	finalAmount decimal.Decimal
}

func (r record) DisplayName() string {
	return fmt.Sprintf("%s (SKU: %s)", r.name, r.sku)
}

func (r record) Available() bool { return r.available }

func (r record) Saleable() bool { return r.saleable }

func (r record) FinalPrice() decimal.Decimal { return r.finalAmount }

func (r record) Product(vendor string) models.Product {
	p := models.Product{
		Name:      r.name,
		Prices:    models.NewPrices(r.oldAmount, r.finalAmount),
		Vendor:    vendor,
		VendorID:  r.id,
		VendorSKU: r.sku,
	}
	if r.weightUOM != "" {
		units := r.weightUOM
		p.Units = &units
	}
	return p
}

var (
	errMissing     = errors.New("missing")
	errNotObject   = errors.New("item is not an object")
	errEmpty       = errors.New("empty")
	errNegative    = errors.New("negative amount")
	errInvalidJSON = errors.New("response is not valid JSON")
	errNotArray    = errors.New("items container is not an array")
)

// parseRecords reads the item array out of a weekly specials response.
func parseRecords(body []byte) ([]record, error) {
	if !json.Valid(body) {
		return nil, models.NewItemMalformedError(Vendor, itemsPath, -1, "", errInvalidJSON)
	}

	var records []record
	res, err := jsonpath.EachItem(body, itemsPath, func(index int, item []byte, typ jsonparser.ValueType) error {
		if typ != jsonparser.Object {
			return models.NewItemMalformedError(Vendor, itemsPath, index, "", errNotObject)
		}
		r, err := parseRecord(index, item)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case jsonpath.Missing:
		return nil, models.NewContainerMissingError(Vendor, itemsPath)
	case jsonpath.Malformed:
		cause := res.Err
		if cause == nil {
			cause = errNotArray
		}
		return nil, models.NewItemMalformedError(Vendor, itemsPath, -1, "", cause)
	}
	if records == nil {
		records = []record{}
	}
	return records, nil
}

func field[T any](index int, item []byte, path string, get func([]byte, string) (T, jsonpath.Result)) (T, error) {
	v, res := get(item, path)
	switch res.Status {
	case jsonpath.Missing:
		return v, models.NewItemMalformedError(Vendor, itemsPath, index, path, errMissing)
	case jsonpath.Malformed:
		return v, models.NewItemMalformedError(Vendor, itemsPath, index, path, res.Err)
	}
	return v, nil
}

func optionalField[T any](index int, item []byte, path string, get func([]byte, string) (T, jsonpath.Result)) (T, error) {
	v, res := get(item, path)
	if res.Status == jsonpath.Malformed {
		return v, models.NewItemMalformedError(Vendor, itemsPath, index, path, res.Err)
	}
	return v, nil
}

func parseRecord(index int, item []byte) (record, error) {
	var (
		r   record
		err error
	)
	if r.id, err = field(index, item, "id", jsonpath.String); err != nil {
		return r, err
	}
	if r.sku, err = field(index, item, "sku", jsonpath.String); err != nil {
		return r, err
	}
	if r.name, err = field(index, item, "name", jsonpath.String); err != nil {
		return r, err
	}
	if r.name == "" {
		return r, models.NewItemMalformedError(Vendor, itemsPath, index, "name", errEmpty)
	}
	if r.weightUOM, err = optionalField(index, item, "weight_uom", jsonpath.String); err != nil {
		return r, err
	}
	if r.available, err = field(index, item, "is_available", jsonpath.Flag); err != nil {
		return r, err
	}
	if r.saleable, err = field(index, item, "is_saleable", jsonpath.Flag); err != nil {
		return r, err
	}
	if r.oldAmount, err = field(index, item, "prices.old_price.amount", jsonpath.Decimal); err != nil {
		return r, err
	}
	if r.oldAmount.IsNegative() {
		return r, models.NewItemMalformedError(Vendor, itemsPath, index, "prices.old_price.amount", errNegative)
	}
	if r.finalAmount, err = field(index, item, "prices.final_price.amount", jsonpath.Decimal); err != nil {
		return r, err
	}
	if r.finalAmount.IsNegative() {
		return r, models.NewItemMalformedError(Vendor, itemsPath, index, "prices.final_price.amount", errNegative)
	}
	return r, nil
}
