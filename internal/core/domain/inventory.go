package domain

import "time"

type Inventory struct {
	ID        string    `json:"inventory_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MovementKind string

const (
	MovementCreate MovementKind = "create"
	MovementSet    MovementKind = "set"
	MovementDebit  MovementKind = "debit"
	MovementCredit MovementKind = "credit"
	MovementDelete MovementKind = "delete"
)

// Movement is one committed change to an inventory record. Replaying the
// movements of a product from its last set reproduces its quantity.
type Movement struct {
	ID            string       `json:"id" db:"id"`
	InventoryID   string       `json:"inventory_id" db:"inventory_id"`
	ProductID     string       `json:"product_id" db:"product_id"`
	Kind          MovementKind `json:"kind" db:"kind"`
	Delta         int          `json:"delta" db:"delta"`
	QuantityAfter int          `json:"quantity_after" db:"quantity_after"`
	Reference     string       `json:"reference,omitempty" db:"reference"`
	OccurredAt    time.Time    `json:"occurred_at" db:"occurred_at"`
}
