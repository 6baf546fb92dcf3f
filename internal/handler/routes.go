package handler

import (
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every resource root onto the Echo instance. The
// auth middleware is applied per group; /health and /metrics stay open.
func RegisterRoutes(e *echo.Echo, db *database.Handle, development bool, auth echo.MiddlewareFunc) {
	e.GET("/health", HealthCheck)

	clients := NewClientResource(db, development)
	clientGroup := e.Group("/clients", auth)
	clientGroup.GET("", clients.List)
	clientGroup.GET("/:id", clients.Get)
	clientGroup.POST("", clients.Create)
	clientGroup.PUT("/:id", clients.Update)
	clientGroup.DELETE("/:id", clients.Delete)

	contacts := NewContactResource(db, development)
	contactGroup := e.Group("/contacts", auth)
	contactGroup.GET("", contacts.List)
	contactGroup.GET("/:id", contacts.Get)
	contactGroup.POST("", contacts.Create)
	contactGroup.PUT("/:id", contacts.Update)
	contactGroup.DELETE("/:id", contacts.Delete)

	subs := NewSubContractorResource(db, development)
	subGroup := e.Group("/subcontractors", auth)
	subGroup.GET("", subs.List)
	subGroup.GET("/:id", subs.Get)
	subGroup.POST("", subs.Create)
	subGroup.PUT("/:id", subs.Update)
	subGroup.DELETE("/:id", subs.Delete)

	proposals := NewProposalResource(db, development)
	proposalGroup := e.Group("/proposals", auth)
	proposalGroup.GET("", proposals.List)
	proposalGroup.GET("/:id", proposals.Get)
	proposalGroup.POST("", proposals.Create)
	proposalGroup.PUT("/:id", proposals.Update)
	proposalGroup.DELETE("/:id", proposals.Delete)

	estimates := NewEstimateResource(db, development)
	estimateGroup := e.Group("/estimates", auth)
	estimateGroup.GET("", estimates.List)
	estimateGroup.GET("/:id", estimates.Get)
	estimateGroup.POST("", estimates.Create)
	estimateGroup.PUT("/:id", estimates.Update)
	estimateGroup.DELETE("/:id", estimates.Delete)

	actionItems := NewActionItemHandler(db, development)
	actionGroup := e.Group("/action-items", auth)
	actionGroup.GET("", actionItems.List)
	actionGroup.GET("/:id", actionItems.Get)
	actionGroup.POST("", actionItems.Create)
	actionGroup.PUT("/:id", actionItems.Update)
	actionGroup.DELETE("/:id", actionItems.Delete)
	actionGroup.GET("/:id/comments", actionItems.ListComments)
	actionGroup.POST("/:id/comments", actionItems.CreateComment)
	actionGroup.PUT("/:id/comments/:childId", actionItems.UpdateComment)
	actionGroup.GET("/:id/supervisors", actionItems.ListSupervisors)
	actionGroup.POST("/:id/supervisors", actionItems.CreateSupervisor)
	actionGroup.DELETE("/:id/supervisors/:childId", actionItems.DeleteSupervisor)

	schedules := NewScheduleHandler(db, development)
	scheduleGroup := e.Group("/schedules", auth)
	scheduleGroup.GET("", schedules.List)
	scheduleGroup.GET("/:id", schedules.Get)
	scheduleGroup.POST("", schedules.Create)
	scheduleGroup.PUT("/:id", schedules.Update)
	scheduleGroup.DELETE("/:id", schedules.Delete)
	scheduleGroup.GET("/:id/tasks", schedules.ListTasks)
	scheduleGroup.POST("/:id/tasks", schedules.CreateTask)
	scheduleGroup.PUT("/:id/tasks/:childId", schedules.UpdateTask)
	scheduleGroup.DELETE("/:id/tasks/:childId", schedules.DeleteTask)

	reports := NewReportHandler(db, development)
	reportGroup := e.Group("/reports", auth)
	reportGroup.GET("/financial-variance", reports.FinancialVariance)
	reportGroup.GET("/pipeline", reports.Pipeline)
	reportGroup.GET("/deposits", reports.Deposits)
}
