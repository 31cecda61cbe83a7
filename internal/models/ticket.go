package models

import (
	"github.com/uptrace/bun"
)

// Ticket is a support/contact-form submission.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	FirstName   string `bun:"first_name,notnull" json:"firstName"`
	LastName    string `bun:"last_name,notnull" json:"lastName"`
	Email       string `bun:"email,notnull" json:"email"`
	Phone       string `bun:"phone,notnull" json:"phone"`
	Description string `bun:"description,notnull" json:"description"`
}
