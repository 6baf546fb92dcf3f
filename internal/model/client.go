package model

// Client represents a construction client account. Tenant-scoped,
// soft-deleted via IsDeleted.
type Client struct {
	Base
	TenantID     uint   `json:"tenant_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"type:varchar(200);not null"`
	EmailAddress string `json:"email_address" gorm:"type:varchar(200)"`
	Phone        string `json:"phone" gorm:"type:varchar(50)"`
	Address      string `json:"address" gorm:"type:varchar(300)"`
	City         string `json:"city" gorm:"type:varchar(100)"`
	State        string `json:"state" gorm:"type:varchar(50)"`
	Zip          string `json:"zip" gorm:"type:varchar(20)"`
	Notes        string `json:"notes" gorm:"type:text"`
	IsDeleted    bool   `json:"is_deleted" gorm:"default:false;index"`
}

// Contact is a person associated with the business, optionally linked to
// a client. Global visibility, gated by IsActive.
type Contact struct {
	Base
	FirstName    string  `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName     string  `json:"last_name" gorm:"type:varchar(100);not null;index"`
	Title        string  `json:"title" gorm:"type:varchar(100)"`
	EmailAddress string  `json:"email_address" gorm:"type:varchar(200)"`
	Phone        string  `json:"phone" gorm:"type:varchar(50)"`
	ClientID     *string `json:"client_id" gorm:"type:varchar(36);index"`
	IsActive     bool    `json:"is_active" gorm:"default:true;index"`
}

// SubContractor is a trade company available for assignments. Global
// visibility, gated by IsActive.
type SubContractor struct {
	Base
	CompanyName  string `json:"company_name" gorm:"type:varchar(200);not null;index"`
	ContactName  string `json:"contact_name" gorm:"type:varchar(200)"`
	Trade        string `json:"trade" gorm:"type:varchar(100);index"`
	EmailAddress string `json:"email_address" gorm:"type:varchar(200)"`
	Phone        string `json:"phone" gorm:"type:varchar(50)"`
	IsActive     bool   `json:"is_active" gorm:"default:true;index"`
}
