package entity

import "github.com/google/uuid"

const GigActive = "ACTIVE"

// Gig is the wholesale listing an inquiry is about. Owned by the catalog,
// read-only here.
type Gig struct {
	Id         uuid.UUID `db:"id"`
	SupplierId uuid.UUID `db:"supplier_id"`
	Title      string    `db:"title"`
	Status     string    `db:"status"`
}
