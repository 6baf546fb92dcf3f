package model

import "time"

// Action item type discriminator values. The discriminator selects which
// extension record may exist for an item; at most one extension row per
// parent.
const (
	ActionTypeCostChange     = 1
	ActionTypeScheduleChange = 2
)

// ActionItem is the composite resource at the center of field
// operations: a primary record with a discriminated cost or schedule
// change extension, ordered comments, and supervisor assignments.
// Tenant-scoped, soft-deleted via IsDeleted.
type ActionItem struct {
	Base
	TenantID          uint    `json:"tenant_id" gorm:"index;not null"`
	ProjectScheduleID string  `json:"project_schedule_id" gorm:"type:varchar(36);not null;index"`
	SubContractorID   *string `json:"sub_contractor_id" gorm:"type:varchar(36);index"`
	ActionTypeID      int     `json:"action_type_id" gorm:"not null;index"`
	Title             string  `json:"title" gorm:"type:varchar(300);not null"`
	Description       string  `json:"description" gorm:"type:text"`
	Status            string  `json:"status" gorm:"type:varchar(50);index;default:'open'"`
	IsDeleted         bool    `json:"is_deleted" gorm:"default:false;index"`
}

// CostChange extends an action item of type ActionTypeCostChange.
// The unique index on ActionItemID pushes 1:1 enforcement into the
// store, closing the concurrent-create race window.
type CostChange struct {
	Base
	ActionItemID   string  `json:"action_item_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	OriginalAmount float64 `json:"original_amount"`
	RevisedAmount  float64 `json:"revised_amount"`
	Reason         string  `json:"reason" gorm:"type:text"`
}

// ScheduleChange extends an action item of type ActionTypeScheduleChange
type ScheduleChange struct {
	Base
	ActionItemID string    `json:"action_item_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	OriginalDate time.Time `json:"original_date"`
	RevisedDate  time.Time `json:"revised_date"`
	DaysDelta    int       `json:"days_delta"`
	Reason       string    `json:"reason" gorm:"type:text"`
}

// Comment is an ordered child of an action item, sorted by creation time
type Comment struct {
	Base
	ActionItemID string `json:"action_item_id" gorm:"type:varchar(36);not null;index"`
	Body         string `json:"body" gorm:"type:text;not null"`
}

// SupervisorAssignment links a contact to an action item as supervisor
type SupervisorAssignment struct {
	Base
	ActionItemID string `json:"action_item_id" gorm:"type:varchar(36);not null;index"`
	ContactID    string `json:"contact_id" gorm:"type:varchar(36);not null;index"`
}
