package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one pending selection. There is at most one line per
// (table, phone, product).
type CartLine struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	TableNo            int       `db:"table_no" json:"tableNo"`
	CustomerName       string    `db:"customer_name" json:"customerName"`
	Phone              string    `db:"phone" json:"phone"`
	ProductID          string    `db:"product_id" json:"productId"`
	ProductName        string    `db:"product_name" json:"productName"`
	ProductDescription string    `db:"product_description" json:"productDescription"`
	ProductImage       string    `db:"product_image" json:"productImage"`
	Station            Station   `db:"station" json:"station"`
	Price              float64   `db:"price" json:"price"`
	Quantity           int       `db:"quantity" json:"quantity"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductSnapshot is what the menu hands over at add-to-cart time. It is
// copied by value and never re-fetched.
type ProductSnapshot struct {
	ID          string
	Name        string
	Description string
	Image       string
	Station     Station
	Price       float64
}
