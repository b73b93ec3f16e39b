package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleWaiter  Role = "waiter"
	RoleKitchen Role = "kitchen"
	RoleBar     Role = "bar"
)

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleWaiter || r == RoleKitchen || r == RoleBar
}

// Staff is anyone who signs in: waiters, kitchen and bar stations, admins.
type Staff struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Username   string     `db:"username" json:"username"`
	Password   string     `db:"password" json:"-"`
	Role       Role       `db:"role" json:"role"`
	Phone      string     `db:"phone" json:"phone,omitempty"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ArchivedAt *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}
