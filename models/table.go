package models

import (
	"time"

	"github.com/google/uuid"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableCleaning  TableStatus = "cleaning"
	TableReserved  TableStatus = "reserved"
)

func (s TableStatus) IsValid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableCleaning, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	TableNo         int         `db:"table_no" json:"tableNo"`
	Capacity        int         `db:"capacity" json:"capacity"`
	Status          TableStatus `db:"status" json:"status"`
	AssignedWaiter  *uuid.UUID  `db:"assigned_waiter" json:"assignedWaiter"`
	IsAssigned      bool        `db:"is_assigned" json:"isAssigned"`
	AssignedAt      *time.Time  `db:"assigned_at" json:"assignedAt,omitempty"`
	QRCodeURL       string      `db:"qr_code_url" json:"qrCodeUrl"`
	QRCodeImage     string      `db:"qr_code_image" json:"qrCodeImage"`
	QRCodeThumbnail string      `db:"qr_code_thumbnail" json:"qrCodeThumbnail"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}
