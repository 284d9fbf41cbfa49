// Package panel holds the client side of the product admin panel: an HTTP
// gateway to the catalog API and the in-memory list state it keeps in sync.
package panel

// Product is a catalog record as the API returns it. The id is assigned by
// the backend and treated as opaque here.
type Product struct {
	ID          string   `json:"id"`
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount,omitempty"`
}

// Draft is the user-supplied subset of product fields, sent on create and
// update before the backend has (re)assigned the record.
type Draft struct {
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount,omitempty"`
}
