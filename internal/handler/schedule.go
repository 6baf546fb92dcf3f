package handler

import (
	"net/http"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
)

// ScheduleRequest defines the structure for project schedule creation
type ScheduleRequest struct {
	ClientID    string     `json:"client_id"`
	ProposalID  *string    `json:"proposal_id"`
	ProjectName string     `json:"project_name"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      float64    `json:"budget"`
}

// ScheduleTaskRequest defines the structure for schedule task creation
type ScheduleTaskRequest struct {
	SubContractorID *string    `json:"sub_contractor_id"`
	TaskName        string     `json:"task_name"`
	SortOrder       int        `json:"sort_order"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status"`
}

// ScheduleHandler serves /schedules and its nested task collection
type ScheduleHandler struct {
	db          *database.Handle
	development bool
	resource    *Resource
}

// NewScheduleHandler builds the /schedules controller
func NewScheduleHandler(db *database.Handle, development bool) *ScheduleHandler {
	h := &ScheduleHandler{db: db, development: development}
	h.resource = &Resource{
		db:          db,
		desc:        model.ProjectScheduleDescriptor,
		development: development,
		newSlice:    func() interface{} { return &[]model.ProjectSchedule{} },
		newOne:      func() interface{} { return &model.ProjectSchedule{} },
		bindCreate: func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error) {
			var req ScheduleRequest
			if err := c.Bind(&req); err != nil {
				return nil, nil, engine.NewError(engine.KindValidationFailed, "invalid request body")
			}

			var missing []FieldMessage
			if req.ClientID == "" {
				missing = append(missing, requiredField("client_id"))
			}
			if req.ProjectName == "" {
				missing = append(missing, requiredField("project_name"))
			}
			if len(missing) > 0 {
				return nil, nil, newValidationError(missing...)
			}

			status := req.Status
			if status == "" {
				status = "planned"
			}
			startDate := time.Now().UTC()
			if req.StartDate != nil {
				startDate = *req.StartDate
			}
			var endDate time.Time
			if req.EndDate != nil {
				endDate = *req.EndDate
			}

			schedule := &model.ProjectSchedule{
				Base:        model.NewBase(engine.NewRecordStamp(identity)),
				TenantID:    identity.TenantID,
				ClientID:    req.ClientID,
				ProposalID:  req.ProposalID,
				ProjectName: req.ProjectName,
				Status:      status,
				StartDate:   startDate,
				EndDate:     endDate,
				Budget:      req.Budget,
			}
			checks := []engine.FKCheck{
				{Field: "client_id", Desc: model.ClientDescriptor, Value: &req.ClientID},
				{Field: "proposal_id", Desc: model.ProposalDescriptor, Value: req.ProposalID},
			}
			return schedule, checks, nil
		},
		updateChecks: func(payload map[string]interface{}) []engine.FKCheck {
			return []engine.FKCheck{
				{Field: "proposal_id", Desc: model.ProposalDescriptor, Value: stringRef(payload, "proposal_id")},
			}
		},
	}
	return h
}

func (h *ScheduleHandler) List(c echo.Context) error   { return h.resource.List(c) }
func (h *ScheduleHandler) Get(c echo.Context) error    { return h.resource.Get(c) }
func (h *ScheduleHandler) Create(c echo.Context) error { return h.resource.Create(c) }
func (h *ScheduleHandler) Update(c echo.Context) error { return h.resource.Update(c) }
func (h *ScheduleHandler) Delete(c echo.Context) error { return h.resource.Delete(c) }

func (h *ScheduleHandler) visibleParent(c echo.Context, identity engine.Identity) (string, error) {
	parentID := c.Param("id")
	visible, err := engine.Visible(h.db.DB(), model.ProjectScheduleDescriptor, parentID, identity)
	if err != nil {
		return "", err
	}
	if !visible {
		return "", engine.NewError(engine.KindNotFound, "project_schedule not found")
	}
	return parentID, nil
}

// ListTasks handles GET /schedules/:id/tasks in canonical sort order
func (h *ScheduleHandler) ListTasks(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	tasks := []model.ScheduleTask{}
	if err := h.db.DB().Where("project_schedule_id = ?", parentID).Order("sort_order ASC").Find(&tasks).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusOK, "tasks retrieved", tasks)
}

// CreateTask handles POST /schedules/:id/tasks
func (h *ScheduleHandler) CreateTask(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("schedule_task", "create")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	var req ScheduleTaskRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, engine.NewError(engine.KindValidationFailed, "invalid request body"), h.development)
	}
	if req.TaskName == "" {
		return respondError(c, newValidationError(requiredField("task_name")), h.development)
	}

	db := h.db.DB()
	if err := engine.ValidateFKs(db, identity.TenantID, engine.FKCheck{
		Field: "sub_contractor_id", Desc: model.SubContractorDescriptor, Value: req.SubContractorID,
	}); err != nil {
		return respondError(c, err, h.development)
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}
	var startDate, endDate time.Time
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}

	task := &model.ScheduleTask{
		Base:              model.NewBase(engine.NewRecordStamp(identity)),
		ProjectScheduleID: parentID,
		SubContractorID:   req.SubContractorID,
		TaskName:          req.TaskName,
		SortOrder:         req.SortOrder,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            status,
	}
	if err := db.Create(task).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusCreated, "schedule_task created", task)
}

// UpdateTask handles PUT /schedules/:id/tasks/:childId
func (h *ScheduleHandler) UpdateTask(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("schedule_task", "update")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	payload, err := decodePayload(c)
	if err != nil {
		return respondError(c, err, h.development)
	}

	db := h.db.DB()
	if err := engine.ValidateFKs(db, identity.TenantID, engine.FKCheck{
		Field: "sub_contractor_id", Desc: model.SubContractorDescriptor, Value: stringRef(payload, "sub_contractor_id"),
	}); err != nil {
		return respondError(c, err, h.development)
	}

	taskID := c.Param("childId")
	var count int64
	if err := db.Model(&model.ScheduleTask{}).
		Where("id = ? AND project_schedule_id = ?", taskID, parentID).
		Count(&count).Error; err != nil {
		return respondError(c, err, h.development)
	}
	if count == 0 {
		return respondError(c, engine.NewError(engine.KindNotFound, "schedule_task not found"), h.development)
	}

	fields, ferr := engine.UpdateFields(model.ScheduleTaskDescriptor, payload, identity)
	if ferr != nil {
		return respondError(c, ferr, h.development)
	}
	if err := db.Model(&model.ScheduleTask{}).Where("id = ?", taskID).Updates(fields).Error; err != nil {
		return respondError(c, err, h.development)
	}

	var task model.ScheduleTask
	if err := db.Where("id = ?", taskID).Take(&task).Error; err != nil {
		return respondError(c, err, h.development)
	}
	return respondData(c, http.StatusOK, "schedule_task updated", task)
}

// DeleteTask handles DELETE /schedules/:id/tasks/:childId
func (h *ScheduleHandler) DeleteTask(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("schedule_task", "delete")

	parentID, err := h.visibleParent(c, identity)
	if err != nil {
		return respondError(c, err, h.development)
	}

	result := h.db.DB().
		Where("id = ? AND project_schedule_id = ?", c.Param("childId"), parentID).
		Delete(&model.ScheduleTask{})
	if result.Error != nil {
		return respondError(c, result.Error, h.development)
	}
	if result.RowsAffected == 0 {
		return respondError(c, engine.NewError(engine.KindNotFound, "schedule_task not found"), h.development)
	}
	return respondData(c, http.StatusOK, "schedule_task deleted", nil)
}
