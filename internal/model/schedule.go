package model

import "time"

// ProjectSchedule is a project's master schedule. Tenant-scoped,
// soft-deleted via IsDeleted.
type ProjectSchedule struct {
	Base
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	ClientID    string    `json:"client_id" gorm:"type:varchar(36);not null;index"`
	ProposalID  *string   `json:"proposal_id" gorm:"type:varchar(36);index"`
	ProjectName string    `json:"project_name" gorm:"type:varchar(300);not null"`
	Status      string    `json:"status" gorm:"type:varchar(50);index;default:'planned'"`
	StartDate   time.Time `json:"start_date" gorm:"index"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget"`
	IsDeleted   bool      `json:"is_deleted" gorm:"default:false;index"`
}

// ScheduleTask is an ordered child of a project schedule, sorted by its
// explicit sequence number.
type ScheduleTask struct {
	Base
	ProjectScheduleID string    `json:"project_schedule_id" gorm:"type:varchar(36);not null;index"`
	SubContractorID   *string   `json:"sub_contractor_id" gorm:"type:varchar(36);index"`
	TaskName          string    `json:"task_name" gorm:"type:varchar(300);not null"`
	SortOrder         int       `json:"sort_order" gorm:"not null;index"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Status            string    `json:"status" gorm:"type:varchar(50);default:'pending'"`
}

// LedgerEntry mirrors a row from the accounting ledger. The ledger is a
// read-only external source consumed by the reporting endpoints; this
// service never writes to it.
type LedgerEntry struct {
	ID                string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID          uint      `json:"tenant_id" gorm:"index;not null"`
	ProjectScheduleID *string   `json:"project_schedule_id" gorm:"type:varchar(36);index"`
	EntryDate         time.Time `json:"entry_date" gorm:"index"`
	Account           string    `json:"account" gorm:"type:varchar(100)"`
	Memo              string    `json:"memo" gorm:"type:varchar(500)"`
	Amount            float64   `json:"amount"`
}
