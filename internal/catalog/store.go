package catalog

import (
	"context"
	"errors"
)

type Product struct {
	ID          string   `json:"id"`
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount,omitempty"`
}

var ErrDuplicateID = errors.New("duplicate product id")

type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
