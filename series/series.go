// Package series decodes declarative data series and binds their rows to
// concrete marker placements.
package series

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Type names the object a series is drawn with
type Type string

const (
	Cube     Type = "cube"
	Cylinder Type = "cylinder"
	Sphere   Type = "sphere"
	Cone     Type = "cone"
	Pin      Type = "pin"
	Flag     Type = "flag"
)

// Live reports whether objects of this type stay individually addressable
func (t Type) Live() bool {
	return t == Pin || t == Flag
}

// Static reports whether objects of this type are merged into the surface batch
func (t Type) Static() bool {
	return t == Cube || t == Cylinder || t == Cone
}

// ColorSpec is either a flat color or a two-color gradient over the series amounts
type ColorSpec struct {
	Flat     string
	Gradient []string
}

// IsGradient reports whether the spec interpolates between two colors
func (c ColorSpec) IsGradient() bool {
	return len(c.Gradient) == 2
}

func (c *ColorSpec) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var g []string
		if err := json.Unmarshal(b, &g); err != nil {
			return fmt.Errorf("series color: %w", err)
		}
		if len(g) != 2 {
			return fmt.Errorf("series color: gradient needs 2 colors, got %d", len(g))
		}
		*c = ColorSpec{Gradient: g}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("series color: %w", err)
	}
	*c = ColorSpec{Flat: s}
	return nil
}

func (c ColorSpec) MarshalJSON() ([]byte, error) {
	if c.IsGradient() {
		return json.Marshal(c.Gradient)
	}
	return json.Marshal(c.Flat)
}

// Item is one data row: [lat, lon, amount?, color?, label?]
type Item struct {
	Lat    float64
	Lon    float64
	Amount *float64
	Color  string
	Label  string
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		return fmt.Errorf("series item: %w", err)
	}
	if len(row) > 5 {
		return fmt.Errorf("series item: %d fields, at most 5 allowed", len(row))
	}

	*it = Item{}
	field := func(i int, dst any) error {
		if i >= len(row) || string(row[i]) == "null" {
			return nil
		}
		if err := json.Unmarshal(row[i], dst); err != nil {
			return fmt.Errorf("series item field %d: %w", i, err)
		}
		return nil
	}

	var amount float64
	if err := field(0, &it.Lat); err != nil {
		return err
	}
	if err := field(1, &it.Lon); err != nil {
		return err
	}
	if len(row) > 2 && string(row[2]) != "null" {
		if err := field(2, &amount); err != nil {
			return err
		}
		it.Amount = &amount
	}
	if err := field(3, &it.Color); err != nil {
		return err
	}
	return field(4, &it.Label)
}

func (it Item) MarshalJSON() ([]byte, error) {
	row := []any{it.Lat, it.Lon, it.Amount, nil, nil}
	if it.Color != "" {
		row[3] = it.Color
	}
	if it.Label != "" {
		row[4] = it.Label
	}
	return json.Marshal(row)
}

// ResolvedAmount returns the row amount, 1 when missing
func (it Item) ResolvedAmount() float64 {
	if it.Amount == nil {
		return 1
	}
	return *it.Amount
}

// Series is a named group of rows drawn with one object type.
// Zero-valued styling fields take the defaults documented on Bind.
type Series struct {
	Name    string    `json:"name"`
	Type    Type      `json:"type"`
	Color   ColorSpec `json:"color"`
	Data    []Item    `json:"data"`
	Opacity float64   `json:"opacity,omitempty"`
	Scale   float64   `json:"scale,omitempty"`
	Grow    string    `json:"grow,omitempty"`
	Girth   float64   `json:"girth,omitempty"`
	Height  float64   `json:"height,omitempty"`
}

// Decode reads either a JSON array of series or an object with a "series" key
func Decode(r io.Reader) ([]Series, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	var list []Series
	if len(raw) > 0 && raw[0] == '{' {
		var doc struct {
			Series []Series `json:"series"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode series: %w", err)
		}
		return doc.Series, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	return list, nil
}
