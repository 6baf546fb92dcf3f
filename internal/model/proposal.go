package model

import "time"

// Proposal is a bid sent to a client. Tenant-scoped, hard-deleted.
type Proposal struct {
	Base
	TenantID     uint      `json:"tenant_id" gorm:"index;not null"`
	ClientID     string    `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Title        string    `json:"title" gorm:"type:varchar(300);not null"`
	Status       string    `json:"status" gorm:"type:varchar(50);index;default:'draft'"`
	ProposalDate time.Time `json:"proposal_date" gorm:"index"`
	Amount       float64   `json:"amount"`
	DepositRate  float64   `json:"deposit_rate"`
	Notes        string    `json:"notes" gorm:"type:text"`
}

// Estimate is a detailed cost breakdown, optionally tied to a proposal.
// Tenant-scoped, hard-deleted.
type Estimate struct {
	Base
	TenantID    uint    `json:"tenant_id" gorm:"index;not null"`
	ClientID    string  `json:"client_id" gorm:"type:varchar(36);not null;index"`
	ProposalID  *string `json:"proposal_id" gorm:"type:varchar(36);index"`
	Description string  `json:"description" gorm:"type:text"`
	Status      string  `json:"status" gorm:"type:varchar(50);index;default:'open'"`
	Amount      float64 `json:"amount"`
}
