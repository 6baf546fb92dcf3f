package handler

import (
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/labstack/echo/v4"
)

// ProposalRequest defines the structure for proposal creation requests
type ProposalRequest struct {
	ClientID     string     `json:"client_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ProposalDate *time.Time `json:"proposal_date"`
	Amount       float64    `json:"amount"`
	DepositRate  float64    `json:"deposit_rate"`
	Notes        string     `json:"notes"`
}

// NewProposalResource builds the /proposals controller
func NewProposalResource(db *database.Handle, development bool) *Resource {
	return &Resource{
		db:          db,
		desc:        model.ProposalDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.Proposal{} },
		newOne:      func() interface{} { return &model.Proposal{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req ProposalRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}

			var missing []FieldMessage
			if req.ClientID == "" {
				missing = append(missing, requiredField("client_id"))
			}
			if req.Title == "" {
				missing = append(missing, requiredField("title"))
			}
			if len(missing) > 0 {
				return nil, nil, newValidationError(missing...)
			}

			status := req.Status
			if status == "" {
				status = "draft"
			}
			proposalDate := time.Now().UTC()
			if req.ProposalDate != nil {
				proposalDate = *req.ProposalDate
			}

			proposal := &model.Proposal{
				Base:         model.NewBase(engine.NewRecordStamp(identity)),
				TenantID:     identity.TenantID,
				ClientID:     req.ClientID,
				Title:        req.Title,
				Status:       status,
				ProposalDate: proposalDate,
				Amount:       req.Amount,
				DepositRate:  req.DepositRate,
				Notes:        req.Notes,
			}
			checks := []engine.FKCheck{
				{Field: "client_id", Desc: model.ClientDescriptor, Value: &req.ClientID},
			}
			return proposal, checks, nil
		},
	}
}

// EstimateRequest defines the structure for estimate creation requests
type EstimateRequest struct {
	ClientID    string  `json:"client_id"`
	ProposalID  *string `json:"proposal_id"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
}

// NewEstimateResource builds the /estimates controller
func NewEstimateResource(db *database.Handle, development bool) *Resource {
	return &Resource{
		db:          db,
		desc:        model.EstimateDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.Estimate{} },
		newOne:      func() interface{} { return &model.Estimate{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req EstimateRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}
			if req.ClientID == "" {
				return nil, nil, newValidationError(requiredField("client_id"))
			}

			status := req.Status
			if status == "" {
				status = "open"
			}

			estimate := &model.Estimate{
				Base:        model.NewBase(engine.NewRecordStamp(identity)),
				TenantID:    identity.TenantID,
				ClientID:    req.ClientID,
				ProposalID:  req.ProposalID,
				Description: req.Description,
				Status:      status,
				Amount:      req.Amount,
			}
			checks := []engine.FKCheck{
				{Field: "client_id", Desc: model.ClientDescriptor, Value: &req.ClientID},
				{Field: "proposal_id", Desc: model.ProposalDescriptor, Value: req.ProposalID},
			}
			return estimate, checks, nil
		},
		updateChecks: func(payload map[string]interface{}) []engine.FKCheck {
			return []engine.FKCheck{
				{Field: "proposal_id", Desc: model.ProposalDescriptor, Value: stringRef(payload, "proposal_id")},
			}
		},
	}
}
