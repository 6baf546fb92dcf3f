package model

import "github.com/buildledger/construct-api/internal/engine"

// Entity descriptors: the single declarative configuration driving the
// engine for each table. Filter and update allow-lists are the only
// names ever interpolated into SQL text; values are always bound.

var ClientDescriptor = &engine.Descriptor{
	Entity:           "client",
	Table:            "clients",
	IDColumn:         "id",
	OwnerColumn:      "tenant_id",
	SoftDeleteColumn: "is_deleted",
	Filterable: map[string]string{
		"email_address": "email_address",
		"state":         "state",
	},
	Searchable:  []string{"name", "email_address"},
	DefaultSort: "created_at DESC",
	Updatable: map[string]string{
		"name":          "name",
		"email_address": "email_address",
		"phone":         "phone",
		"address":       "address",
		"city":          "city",
		"state":         "state",
		"zip":           "zip",
		"notes":         "notes",
	},
}

var ContactDescriptor = &engine.Descriptor{
	Entity:       "contact",
	Table:        "contacts",
	IDColumn:     "id",
	ActiveColumn: "is_active",
	Filterable: map[string]string{
		"client_id": "client_id",
		"title":     "title",
	},
	Searchable:  []string{"first_name", "last_name", "email_address"},
	DefaultSort: "last_name ASC",
	Updatable: map[string]string{
		"first_name":    "first_name",
		"last_name":     "last_name",
		"title":         "title",
		"email_address": "email_address",
		"phone":         "phone",
		"client_id":     "client_id",
	},
}

var SubContractorDescriptor = &engine.Descriptor{
	Entity:       "subcontractor",
	Table:        "sub_contractors",
	IDColumn:     "id",
	ActiveColumn: "is_active",
	Filterable: map[string]string{
		"trade": "trade",
	},
	Searchable:  []string{"company_name", "contact_name"},
	DefaultSort: "company_name ASC",
	Updatable: map[string]string{
		"company_name":  "company_name",
		"contact_name":  "contact_name",
		"trade":         "trade",
		"email_address": "email_address",
		"phone":         "phone",
	},
}

var ProposalDescriptor = &engine.Descriptor{
	Entity:      "proposal",
	Table:       "proposals",
	IDColumn:    "id",
	OwnerColumn: "tenant_id",
	Filterable: map[string]string{
		"client_id": "client_id",
		"status":    "status",
	},
	Searchable:  []string{"title"},
	DefaultSort: "proposal_date DESC",
	Updatable: map[string]string{
		"title":         "title",
		"status":        "status",
		"proposal_date": "proposal_date",
		"amount":        "amount",
		"deposit_rate":  "deposit_rate",
		"notes":         "notes",
	},
}

var EstimateDescriptor = &engine.Descriptor{
	Entity:      "estimate",
	Table:       "estimates",
	IDColumn:    "id",
	OwnerColumn: "tenant_id",
	Filterable: map[string]string{
		"client_id":   "client_id",
		"proposal_id": "proposal_id",
		"status":      "status",
	},
	Searchable:  []string{"description"},
	DefaultSort: "created_at DESC",
	Updatable: map[string]string{
		"description": "description",
		"status":      "status",
		"amount":      "amount",
		"proposal_id": "proposal_id",
	},
}

var ActionItemDescriptor = &engine.Descriptor{
	Entity:           "action_item",
	Table:            "action_items",
	IDColumn:         "id",
	OwnerColumn:      "tenant_id",
	SoftDeleteColumn: "is_deleted",
	Filterable: map[string]string{
		"action_type_id":      "action_type_id",
		"status":              "status",
		"project_schedule_id": "project_schedule_id",
	},
	Searchable:  []string{"title", "description"},
	DefaultSort: "created_at DESC",
	Updatable: map[string]string{
		"title":             "title",
		"description":       "description",
		"status":            "status",
		"sub_contractor_id": "sub_contractor_id",
	},
	Extensions: []engine.Extension{
		{
			Name:                "cost_change",
			Table:               "cost_changes",
			ParentColumn:        "action_item_id",
			DiscriminatorColumn: "action_type_id",
			DiscriminatorValue:  ActionTypeCostChange,
		},
		{
			Name:                "schedule_change",
			Table:               "schedule_changes",
			ParentColumn:        "action_item_id",
			DiscriminatorColumn: "action_type_id",
			DiscriminatorValue:  ActionTypeScheduleChange,
		},
	},
	Children: []engine.ChildCollection{
		{Name: "comments", Table: "comments", ParentColumn: "action_item_id", Order: "created_at ASC"},
		{Name: "supervisors", Table: "supervisor_assignments", ParentColumn: "action_item_id", Order: "created_at ASC"},
	},
}

var CommentDescriptor = &engine.Descriptor{
	Entity:      "comment",
	Table:       "comments",
	IDColumn:    "id",
	Filterable:  map[string]string{},
	DefaultSort: "created_at ASC",
	Updatable: map[string]string{
		"body": "body",
	},
}

var SupervisorAssignmentDescriptor = &engine.Descriptor{
	Entity:      "supervisor_assignment",
	Table:       "supervisor_assignments",
	IDColumn:    "id",
	Filterable:  map[string]string{},
	DefaultSort: "created_at ASC",
	Updatable:   map[string]string{},
}

var ProjectScheduleDescriptor = &engine.Descriptor{
	Entity:           "project_schedule",
	Table:            "project_schedules",
	IDColumn:         "id",
	OwnerColumn:      "tenant_id",
	SoftDeleteColumn: "is_deleted",
	Filterable: map[string]string{
		"client_id": "client_id",
		"status":    "status",
	},
	Searchable:  []string{"project_name"},
	DefaultSort: "start_date DESC",
	Updatable: map[string]string{
		"project_name": "project_name",
		"status":       "status",
		"start_date":   "start_date",
		"end_date":     "end_date",
		"budget":       "budget",
		"proposal_id":  "proposal_id",
	},
	Children: []engine.ChildCollection{
		{Name: "tasks", Table: "schedule_tasks", ParentColumn: "project_schedule_id", Order: "sort_order ASC"},
	},
}

var ScheduleTaskDescriptor = &engine.Descriptor{
	Entity:      "schedule_task",
	Table:       "schedule_tasks",
	IDColumn:    "id",
	Filterable:  map[string]string{},
	DefaultSort: "sort_order ASC",
	Updatable: map[string]string{
		"task_name":         "task_name",
		"sort_order":        "sort_order",
		"start_date":        "start_date",
		"end_date":          "end_date",
		"status":            "status",
		"sub_contractor_id": "sub_contractor_id",
	},
}

// AllModels lists every table for migration at startup
func AllModels() []interface{} {
	return []interface{}{
		&Client{},
		&Contact{},
		&SubContractor{},
		&Proposal{},
		&Estimate{},
		&ActionItem{},
		&CostChange{},
		&ScheduleChange{},
		&Comment{},
		&SupervisorAssignment{},
		&ProjectSchedule{},
		&ScheduleTask{},
		&LedgerEntry{},
	}
}
