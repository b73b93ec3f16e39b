package models

import "time"

// Customer is the phone-keyed identity shared by every table the phone joins.
type Customer struct {
	Phone     string    `db:"phone" json:"phone"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type TableSession struct {
	Phone    string    `db:"phone" json:"phone"`
	Name     string    `db:"name" json:"name"`
	TableNo  int       `db:"table_no" json:"tableNo"`
	JoinedAt time.Time `db:"joined_at" json:"joinedAt"`
}
