// Package cart holds the session-backed shopping cart and its line math.
// Prices are integer cents throughout; no floats.
package cart

import "encoding/json"

// Line is one product entry in a cart. UnitCents is the price captured when
// the line was added; a later product price change does not reprice the cart.
type Line struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Qty       int    `json:"qty"`
	UnitCents int64  `json:"unit_cents"`
}

type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges qty into an existing line for the product or appends a new one.
func (c *Cart) Add(productID, title string, qty int, unitCents int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Qty += qty
			return
		}
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Title: title, Qty: qty, UnitCents: unitCents})
}

// Remove drops the line for productID, reporting whether it was present.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal returns the cart total in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += int64(l.Qty) * l.UnitCents
	}
	return total
}

// Encode serializes the cart for session storage.
func (c *Cart) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Decode restores a cart from session storage. nil or empty input yields an
// empty cart rather than an error, so a fresh session just works.
func Decode(b []byte) (*Cart, error) {
	c := &Cart{}
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}
