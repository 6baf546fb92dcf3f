package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Resource serves the standard CRUD surface for one entity, driven
// entirely by its descriptor. Every controller in the API is an instance
// of this type plus a bind function; there is no per-entity query code.
type Resource struct {
	db          *database.Handle
	desc        *engine.Descriptor
	development bool

	// newSlice returns a pointer to an empty typed slice for listings
	newSlice func() interface{}
	// newOne returns a pointer to an empty typed record for single reads,
	// so single-item responses marshal with the same types as listings
	newOne func() interface{}
	// bindCreate validates the request body and produces the record to
	// insert plus the FK checks that gate the insert. The record must
	// already carry its audit base and tenant stamp.
	bindCreate func(c echo.Context, identity engine.Identity) (interface{}, []engine.FKCheck, error)
	// updateChecks derives FK checks from a partial update payload;
	// optional. Only keys present in the payload produce checks.
	updateChecks func(payload map[string]interface{}) []engine.FKCheck
}

// decodePayload reads the request body into a key-presence-preserving
// map. Presence, not nullness, decides whether a field participates in
// a partial update.
func decodePayload(c echo.Context) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return nil, engine.NewError(engine.KindValidationFailed, "invalid JSON body")
	}
	return payload, nil
}

// stringRef extracts an optional string reference from a payload value.
// Explicit null and absent both yield nil.
func stringRef(payload map[string]interface{}, key string) *string {
	value, present := payload[key]
	if !present || value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}

// fetch reads one visible record. Composite descriptors assemble the
// full document; plain entities decode into the typed model.
func (r *Resource) fetch(id string, identity engine.Identity) (interface{}, error) {
	if len(r.desc.Extensions) > 0 || len(r.desc.Children) > 0 {
		return engine.Assemble(r.db.DB(), r.desc, id, identity)
	}
	record := r.newOne()
	if err := engine.Get(r.db.DB(), r.desc, id, identity, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List handles GET /{resource} with allow-listed filters, search and
// the canonical pagination envelope.
func (r *Resource) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation(r.desc.Entity, "list")

	filters := map[string]string{}
	for key := range r.desc.Filterable {
		if value := c.QueryParam(key); value != "" {
			filters[key] = value
		}
	}

	params := engine.ListParams{
		Filters: filters,
		Search:  c.QueryParam("search"),
		Page:    engine.ParsePage(c.QueryParam("page"), c.QueryParam("limit")),
	}

	dest := r.newSlice()
	defer prometheus.TrackDBOperation("select")(time.Now())
	meta, err := engine.List(r.db.DB(), r.desc, identity, params, dest)
	if err != nil {
		return respondError(c, err, r.development)
	}

	return respondList(c, dest, meta)
}

// Get handles GET /{resource}/:id. Descriptors with extensions or child
// collections assemble the full composite document; plain entities
// return the typed row.
func (r *Resource) Get(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation(r.desc.Entity, "get")

	defer prometheus.TrackDBOperation("select")(time.Now())
	record, err := r.fetch(c.Param("id"), identity)
	if err != nil {
		return respondError(c, err, r.development)
	}
	return respondData(c, http.StatusOK, r.desc.Entity+" retrieved", record)
}

// Create handles POST /{resource}: bind, validate references, insert.
// A failed reference check aborts before any insert.
func (r *Resource) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation(r.desc.Entity, "create")

	record, checks, err := r.bindCreate(c, identity)
	if err != nil {
		return respondError(c, err, r.development)
	}

	if err := engine.ValidateFKs(r.db.DB(), identity.TenantID, checks...); err != nil {
		return respondError(c, err, r.development)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := r.db.DB().Create(record).Error; err != nil {
		log.Error("Failed to create record",
			zap.String("entity", r.desc.Entity),
			zap.Error(err))
		return respondError(c, err, r.development)
	}

	log.Info("Record created",
		zap.String("entity", r.desc.Entity),
		zap.Uint("tenant_id", identity.TenantID))
	return respondData(c, http.StatusCreated, r.desc.Entity+" created", record)
}

// Update handles PUT /{resource}/:id as a presence-based partial update
func (r *Resource) Update(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation(r.desc.Entity, "update")

	payload, err := decodePayload(c)
	if err != nil {
		return respondError(c, err, r.development)
	}

	if r.updateChecks != nil {
		if err := engine.ValidateFKs(r.db.DB(), identity.TenantID, r.updateChecks(payload)...); err != nil {
			return respondError(c, err, r.development)
		}
	}

	id := c.Param("id")
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := engine.Update(r.db.DB(), r.desc, id, identity, payload); err != nil {
		return respondError(c, err, r.development)
	}

	record, err := r.fetch(id, identity)
	if err != nil {
		return respondError(c, err, r.development)
	}
	return respondData(c, http.StatusOK, r.desc.Entity+" updated", record)
}

// Delete handles DELETE /{resource}/:id. Soft or hard per descriptor.
func (r *Resource) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation(r.desc.Entity, "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := engine.Delete(r.db.DB(), r.desc, c.Param("id"), identity); err != nil {
		return respondError(c, err, r.development)
	}
	return respondData(c, http.StatusOK, r.desc.Entity+" deleted", nil)
}
