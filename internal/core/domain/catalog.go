package domain

type Supplier struct {
	ID       string `json:"supplier_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

type SupplierUpdate struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}

func (u SupplierUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil && u.Contact == nil
}

type Product struct {
	ID          string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	SupplierID  string  `json:"supplier_id"`
}

// ProductUpdate lists the product attributes that may change. The supplier
// link is fixed at creation.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil
}
