package domain

import "time"

type Retailer struct {
	ID       string `json:"retailer_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

// RetailerUpdate lists the retailer attributes that may change. Nil fields
// are left untouched.
type RetailerUpdate struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}

func (u RetailerUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil && u.Contact == nil
}

type Order struct {
	ID         string    `json:"order_id"`
	RetailerID string    `json:"retailer_id"`
	OrderDate  time.Time `json:"order_date"`
}

// OrderLine is one product-quantity entry of an order, identified by the
// (order, product) pair.
type OrderLine struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
