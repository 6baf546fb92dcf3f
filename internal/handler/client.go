package handler

import (
	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/labstack/echo/v4"
)

// ClientRequest defines the structure for client creation requests
type ClientRequest struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Notes        string `json:"notes"`
}

// NewClientResource builds the /clients controller
func NewClientResource(db *database.Handle, development bool) *Resource {
	return &Resource{
		db:          db,
		desc:        model.ClientDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.Client{} },
		newOne:      func() interface{} { return &model.Client{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req ClientRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}
			if req.Name == "" {
				return nil, nil, newValidationError(requiredField("name"))
			}

			client := &model.Client{
				Base:         model.NewBase(engine.NewRecordStamp(identity)),
				TenantID:     identity.TenantID,
				Name:         req.Name,
				EmailAddress: req.EmailAddress,
				Phone:        req.Phone,
				Address:      req.Address,
				City:         req.City,
				State:        req.State,
				Zip:          req.Zip,
				Notes:        req.Notes,
				IsDeleted:    false,
			}
			return client, nil, nil
		},
	}
}
