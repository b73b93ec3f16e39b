package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Station string

const (
	StationKitchen Station = "kitchen"
	StationBar     Station = "bar"
)

// ParseStation maps the menu's food-type labels onto a station. An empty
// label belongs to the kitchen.
func ParseStation(s string) (Station, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kitchen", "food", "foods", "dessert", "desserts":
		return StationKitchen, true
	case "bar", "drink", "drinks", "beverage", "beverages":
		return StationBar, true
	}
	return "", false
}

type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusPrepare        OrderStatus = "prepare"
	StatusReadyToServe   OrderStatus = "readyToServe"
	StatusPaymentPending OrderStatus = "paymentPending"
	StatusCompleted      OrderStatus = "completed"
	StatusNotAvailable   OrderStatus = "notAvailable"
	StatusCancelled      OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPlaced: {
		StatusPrepare:      true,
		StatusNotAvailable: true,
		StatusCancelled:    true,
	},
	StatusPrepare: {
		StatusReadyToServe: true,
		StatusNotAvailable: true,
		StatusCancelled:    true,
	},
	StatusReadyToServe: {
		StatusPaymentPending: true,
		StatusCompleted:      true,
	},
	StatusPaymentPending: {
		StatusCompleted: true,
	},
	StatusCompleted:    {},
	StatusNotAvailable: {},
	StatusCancelled:    {},
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return allowedTransitions[s][next]
}

// StatusPolicy decides which status writes the ledger accepts.
type StatusPolicy string

const (
	// PolicyForward only allows the edges of the transition table.
	PolicyForward StatusPolicy = "forward"
	// PolicyFree allows any known status, so staff can correct mistakes.
	PolicyFree StatusPolicy = "free"
)

func (p StatusPolicy) IsValid() bool {
	return p == PolicyForward || p == PolicyFree
}

func (p StatusPolicy) Allows(from, to OrderStatus) bool {
	if !to.IsValid() {
		return false
	}
	if p == PolicyFree {
		return true
	}
	return from.CanTransitionTo(to)
}

// OrderLine is one placed item. Lines placed together share a BatchID and
// OrderTotal.
type OrderLine struct {
	ID                 uuid.UUID   `db:"id" json:"id"`
	BatchID            uuid.UUID   `db:"batch_id" json:"batchId"`
	TableNo            int         `db:"table_no" json:"tableNo"`
	CustomerName       string      `db:"customer_name" json:"customerName"`
	Phone              string      `db:"phone" json:"phone"`
	ProductID          string      `db:"product_id" json:"productId"`
	ProductName        string      `db:"product_name" json:"productName"`
	ProductImage       string      `db:"product_image" json:"productImage"`
	ProductDescription string      `db:"product_description" json:"productDescription"`
	Station            Station     `db:"station" json:"station"`
	Price              float64     `db:"price" json:"price"`
	Quantity           int         `db:"quantity" json:"quantity"`
	LineTotal          float64     `db:"line_total" json:"lineTotal"`
	OrderTotal         float64     `db:"order_total" json:"orderTotal"`
	DeclaredTotal      float64     `db:"declared_total" json:"declaredTotal"`
	Status             OrderStatus `db:"status" json:"status"`
	CreatedAt          time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updatedAt"`
}

type PlacedOrder struct {
	BatchID    uuid.UUID   `json:"batchId"`
	TableNo    int         `json:"tableNo"`
	OrderTotal float64     `json:"orderTotal"`
	Lines      []OrderLine `json:"lines"`
}
