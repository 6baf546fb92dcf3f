package model

import (
	"time"

	"github.com/buildledger/construct-api/internal/engine"
)

// Base carries the identifier and audit columns shared by every table.
// All system-managed values are derived through the engine's audit
// deriver; request payloads never set them.
type Base struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedBy string    `json:"created_by" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedBy string    `json:"updated_by" gorm:"type:varchar(100)"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase builds the audit base for an insert from the derived stamp
func NewBase(stamp engine.RecordStamp) Base {
	return Base{
		ID:        stamp.ID,
		CreatedBy: stamp.CreatedBy,
		CreatedAt: stamp.CreatedAt,
		UpdatedBy: stamp.CreatedBy,
		UpdatedAt: stamp.CreatedAt,
	}
}
