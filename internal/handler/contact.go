package handler

import (
	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/labstack/echo/v4"
)

// ContactRequest defines the structure for contact creation requests
type ContactRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Title        string  `json:"title"`
	EmailAddress string  `json:"email_address"`
	Phone        string  `json:"phone"`
	ClientID     *string `json:"client_id"`
}

// NewContactResource builds the /contacts controller. Contacts are
// global but an attached client_id must be owned by the caller's tenant.
func NewContactResource(db *database.Handle, development bool) *Resource {
	return &Resource{
		db:          db,
		desc:        model.ContactDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.Contact{} },
		newOne:      func() interface{} { return &model.Contact{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req ContactRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}

			var missing []FieldMessage
			if req.FirstName == "" {
				missing = append(missing, requiredField("first_name"))
			}
			if req.LastName == "" {
				missing = append(missing, requiredField("last_name"))
			}
			if len(missing) > 0 {
				return nil, nil, newValidationError(missing...)
			}

			contact := &model.Contact{
				Base:         model.NewBase(engine.NewRecordStamp(identity)),
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Title:        req.Title,
				EmailAddress: req.EmailAddress,
				Phone:        req.Phone,
				ClientID:     req.ClientID,
				IsActive:     true,
			}
			checks := []engine.FKCheck{
				{Field: "client_id", Desc: model.ClientDescriptor, Value: req.ClientID},
			}
			return contact, checks, nil
		},
		updateChecks: func(payload map[string]interface{}) []engine.FKCheck {
			return []engine.FKCheck{
				{Field: "client_id", Desc: model.ClientDescriptor, Value: stringRef(payload, "client_id")},
			}
		},
	}
}

// SubContractorRequest defines the structure for subcontractor creation
type SubContractorRequest struct {
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name"`
	Trade        string `json:"trade"`
	EmailAddress string `json:"email_address"`
	Phone        string `json:"phone"`
}

// NewSubContractorResource builds the /subcontractors controller
func NewSubContractorResource(db *database.Handle, development bool) *Resource {
	return &Resource{
		db:          db,
		desc:        model.SubContractorDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.SubContractor{} },
		newOne:      func() interface{} { return &model.SubContractor{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req SubContractorRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}
			if req.CompanyName == "" {
				return nil, nil, newValidationError(requiredField("company_name"))
			}

			sub := &model.SubContractor{
				Base:         model.NewBase(engine.NewRecordStamp(identity)),
				CompanyName:  req.CompanyName,
				ContactName:  req.ContactName,
				Trade:        req.Trade,
				EmailAddress: req.EmailAddress,
				Phone:        req.Phone,
				IsActive:     true,
			}
			return sub, nil, nil
		},
	}
}
