package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table: the drug catalog entry that
// prescriptions reference.
type Medication struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Form        *string   `db:"form" json:"form,omitempty"`
	Strength    *string   `db:"strength" json:"strength,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
