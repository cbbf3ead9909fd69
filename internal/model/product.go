package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices serialize as JSON numbers, matching the storefront wire format.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog record. The identifier is store-assigned and
// immutable; the query engine never mutates or deletes products.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Brand       string          `db:"brand" json:"brand"`
	Category    string          `db:"category" json:"category"`
	Color       string          `db:"color" json:"color"`
	Size        string          `db:"size" json:"size"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Rating      float64         `db:"rating" json:"rating"`
	OnPromotion bool            `db:"on_promotion" json:"onPromotion"`
	ImageUrls   StringList      `db:"image_urls" json:"imageUrls"`
}

// StringList is an ordered list of strings persisted as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return errors.Errorf("unsupported image_urls source type %T", src)
	}
}
