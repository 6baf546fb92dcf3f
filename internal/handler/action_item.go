package handler

import (
	"net/http"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CostChangeRequest is the inline extension payload for cost items
type CostChangeRequest struct {
	OriginalAmount float64 `json:"original_amount"`
	RevisedAmount  float64 `json:"revised_amount"`
	Reason         string  `json:"reason"`
}

// ScheduleChangeRequest is the inline extension payload for schedule items
type ScheduleChangeRequest struct {
	OriginalDate time.Time `json:"original_date"`
	RevisedDate  time.Time `json:"revised_date"`
	DaysDelta    int       `json:"days_delta"`
	Reason       string    `json:"reason"`
}

// ActionItemRequest is the composite creation payload: the primary
// record plus optional inline extension, supervisor list and first
// comment.
type ActionItemRequest struct {
	ProjectScheduleID string                 `json:"project_schedule_id"`
	SubContractorID   *string                `json:"sub_contractor_id"`
	ActionTypeID      int                    `json:"action_type_id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	Status            string                 `json:"status"`
	CostChange        *CostChangeRequest     `json:"cost_change"`
	ScheduleChange    *ScheduleChangeRequest `json:"schedule_change"`
	SupervisorIDs     []string               `json:"supervisor_contact_ids"`
	Comment           string                 `json:"comment"`
}

// ActionItemHandler serves the composite action-item resource. List,
// get, update and delete ride on the shared Resource; create is the
// composite path: primary insert first, then children keyed by the new
// id, then a full re-assemble so the response matches a subsequent read.
type ActionItemHandler struct {
	db          *database.Handle
	development bool
	resource    *Resource
}

// NewActionItemHandler builds the /action-items controller
func NewActionItemHandler(db *database.Handle, development bool) *ActionItemHandler {
	h := &ActionItemHandler{db: db, development: development}
	h.resource = &Resource{
		db:          db,
		desc:        model.ActionItemDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.ActionItem{} },
		newOne:      func() interface{} { return &model.ActionItem{} },
		updateChecks: func(payload map[string]interface{}) []engine.FKCheck {
			return []engine.FKCheck{
				{Field: "sub_contractor_id", Desc: model.SubContractorDescriptor, Value: stringRef(payload, "sub_contractor_id")},
			}
		},
	}
	return h
}

func (h *ActionItemHandler) List(c echo.Context) error   { return h.resource.List(c) }
func (h *ActionItemHandler) Get(c echo.Context) error    { return h.resource.Get(c) }
func (h *ActionItemHandler) Update(c echo.Context) error { return h.resource.Update(c) }
func (h *ActionItemHandler) Delete(c echo.Context) error { return h.resource.Delete(c) }

// Create inserts the primary record, then the discriminated extension
// and inline children, and responds with a fresh assemble of the whole
// composite. An inline extension that does not match the item's type is
// never persisted.
func (h *ActionItemHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("action_item", "create")

	var req ActionItemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, engine.NewError(engine.KindValidationFailed, "invalid request body"), h.development)
	}

	var missing []FieldMessage
	if req.ProjectScheduleID == "" {
		missing = append(missing, requiredField("project_schedule_id"))
	}
	if req.Title == "" {
		missing = append(missing, requiredField("title"))
	}
	if req.ActionTypeID != model.ActionTypeCostChange && req.ActionTypeID != model.ActionTypeScheduleChange {
		missing = append(missing, FieldMessage{Field: "action_type_id", Message: "action_type_id must be 1 (cost change) or 2 (schedule change)"})
	}
	if len(missing) > 0 {
		return respondError(c, newValidationError(missing...), h.development)
	}

	db := h.db.DB()

	checks := []engine.FKCheck{
		{Field: "project_schedule_id", Desc: model.ProjectScheduleDescriptor, Value: &req.ProjectScheduleID},
		{Field: "sub_contractor_id", Desc: model.SubContractorDescriptor, Value: req.SubContractorID},
	}
	for i := range req.SupervisorIDs {
		checks = append(checks, engine.FKCheck{
			Field: "supervisor_contact_ids", Desc: model.ContactDescriptor, Value: &req.SupervisorIDs[i],
		})
	}
	if err := engine.ValidateFKs(db, identity.TenantID, checks...); err != nil {
		return respondError(c, err, h.development)
	}

	status := req.Status
	if status == "" {
		status = "open"
	}

	item := &model.ActionItem{
		Base:              model.NewBase(engine.NewRecordStamp(identity)),
		TenantID:          identity.TenantID,
		ProjectScheduleID: req.ProjectScheduleID,
		SubContractorID:   req.SubContractorID,
		ActionTypeID:      req.ActionTypeID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            status,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(item).Error; err != nil {
		log.Error("Failed to create action item", zap.Error(err))
		return respondError(c, err, h.development)
	}

	// Child inserts only after the primary insert succeeded, each keyed
	// by the generated parent id.
	if req.ActionTypeID == model.ActionTypeCostChange && req.CostChange != nil {
		change := &model.CostChange{
			Base:           model.NewBase(engine.NewRecordStamp(identity)),
			ActionItemID:   item.ID,
			OriginalAmount: req.CostChange.OriginalAmount,
			RevisedAmount:  req.CostChange.RevisedAmount,
			Reason:         req.CostChange.Reason,
		}
		if err := db.Create(change).Error; err != nil {
			return respondError(c, err, h.development)
		}
	}
	if req.ActionTypeID == model.ActionTypeScheduleChange && req.ScheduleChange != nil {
		change := &model.ScheduleChange{
			Base:         model.NewBase(engine.NewRecordStamp(identity)),
			ActionItemID: item.ID,
			OriginalDate: req.ScheduleChange.OriginalDate,
			RevisedDate:  req.ScheduleChange.RevisedDate,
			DaysDelta:    req.ScheduleChange.DaysDelta,
			Reason:       req.ScheduleChange.Reason,
		}
		if err := db.Create(change).Error; err != nil {
			return respondError(c, err, h.development)
		}
	}

	for _, contactID := range req.SupervisorIDs {
		assignment := &model.SupervisorAssignment{
			Base:         model.NewBase(engine.NewRecordStamp(identity)),
			ActionItemID: item.ID,
			ContactID:    contactID,
		}
		if err := db.Create(assignment).Error; err != nil {
			return respondError(c, err, h.development)
		}
	}

	if req.Comment != "" {
		comment := &model.Comment{
			Base:         model.NewBase(engine.NewRecordStamp(identity)),
			ActionItemID: item.ID,
			Body:         req.Comment,
		}
		if err := db.Create(comment).Error; err != nil {
			return respondError(c, err, h.development)
		}
	}

	// Re-assemble instead of trusting in-memory partials: the response
	// must match what a subsequent read returns.
	doc, err := engine.Assemble(db, model.ActionItemDescriptor, item.ID, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	log.Info("Action item created",
		zap.String("id", item.ID),
		zap.Int("action_type_id", item.ActionTypeID),
		zap.Uint("tenant_id", identity.TenantID))
	return respondData(c, http.StatusCreated, "action_item created", doc)
}

// visibleParent checks the parent action item before any nested child
// operation; a parent under another tenant reads as not found.
func (h *ActionItemHandler) visibleParent(c echo.Context, identity engine.Identity) (string, error) {
	parentID := c.Param("id")
	visible, err := engine.Visible(h.db.DB(), model.ActionItemDescriptor, parentID, identity)
	if err != nil {
		return "", err
	}
	if !visible {
		return "", engine.NewError(engine.KindNotFound, "action_item not found")
	}
	return parentID, nil
}

// ListComments handles GET /action-items/:id/comments
func (h *ActionItemHandler) ListComments(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	comments := []model.Comment{}
	if err := h.db.DB().Where("action_item_id = ?", parentID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusOK, "comments retrieved", comments)
}

// CreateComment handles POST /action-items/:id/comments
func (h *ActionItemHandler) CreateComment(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("comment", "create")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, engine.NewError(engine.KindValidationFailed, "invalid request body"), h.development)
	}
	if req.Body == "" {
		return respondError(c, newValidationError(requiredField("body")), h.development)
	}

	comment := &model.Comment{
		Base:         model.NewBase(engine.NewRecordStamp(identity)),
		ActionItemID: parentID,
		Body:         req.Body,
	}
	if err := h.db.DB().Create(comment).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusCreated, "comment created", comment)
}

// UpdateComment handles PUT /action-items/:id/comments/:childId
func (h *ActionItemHandler) UpdateComment(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("comment", "update")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	payload, err := decodePayload(c)
	if err != nil {
		return respondError(c, err, h.development)
	}

	db := h.db.DB()
	commentID := c.Param("childId")
	var count int64
	if err := db.Model(&model.Comment{}).
		Where("id = ? AND action_item_id = ?", commentID, parentID).
		Count(&count).Error; err != nil {
		return respondError(c, err, h.development)
	}
	if count == 0 {
		return respondError(c, engine.NewError(engine.KindNotFound, "comment not found"), h.development)
	}

	fields, ferr := engine.UpdateFields(model.CommentDescriptor, payload, identity)
	if ferr != nil {
		return respondError(c, ferr, h.development)
	}
	if err := db.Model(&model.Comment{}).Where("id = ?", commentID).Updates(fields).Error; err != nil {
		return respondError(c, err, h.development)
	}

	var comment model.Comment
	if err := db.Where("id = ?", commentID).Take(&comment).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusOK, "comment updated", comment)
}

// ListSupervisors handles GET /action-items/:id/supervisors
func (h *ActionItemHandler) ListSupervisors(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	assignments := []model.SupervisorAssignment{}
	if err := h.db.DB().Where("action_item_id = ?", parentID).Order("created_at ASC").Find(&assignments).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusOK, "supervisors retrieved", assignments)
}

// CreateSupervisor handles POST /action-items/:id/supervisors
func (h *ActionItemHandler) CreateSupervisor(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("supervisor_assignment", "create")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	var req struct {
		ContactID string `json:"contact_id"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, engine.NewError(engine.KindValidationFailed, "invalid request body"), h.development)
	}
	if req.ContactID == "" {
		return respondError(c, newValidationError(requiredField("contact_id")), h.development)
	}

	db := h.db.DB()
	if err := engine.ValidateFKs(db, identity.TenantID, engine.FKCheck{
		Field: "contact_id", Desc: model.ContactDescriptor, Value: &req.ContactID,
	}); err != nil {
		return respondError(c, err, h.development)
	}

	// Pre-check for an existing assignment. Concurrent creates can both
	// pass this check; the store-level uniqueness of the pair is not
	// enforced here.
	var count int64
	if err := db.Model(&model.SupervisorAssignment{}).
		Where("action_item_id = ? AND contact_id = ?", parentID, req.ContactID).
		Count(&count).Error; err != nil {
		return respondError(c, err, h.development)
	}
	if count > 0 {
		return respondError(c, engine.NewError(engine.KindDuplicateEntry, "contact is already assigned as supervisor"), h.development)
	}

	assignment := &model.SupervisorAssignment{
		Base:         model.NewBase(engine.NewRecordStamp(identity)),
		ActionItemID: parentID,
		ContactID:    req.ContactID,
	}
	if err := db.Create(assignment).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusCreated, "supervisor assigned", assignment)
}

// DeleteSupervisor handles DELETE /action-items/:id/supervisors/:childId
func (h *ActionItemHandler) DeleteSupervisor(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("supervisor_assignment", "delete")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	result := h.db.DB().
		Where("id = ? AND action_item_id = ?", c.Param("childId"), parentID).
		Delete(&model.SupervisorAssignment{})
	if result.Error != nil {
		return respondError(c, result.Error, h.development)
	}
	if result.RowsAffected == 0 {
		return respondError(c, engine.NewError(engine.KindNotFound, "supervisor assignment not found"), h.development)
	}
	return respondData(c, http.StatusOK, "supervisor removed", nil)
}
