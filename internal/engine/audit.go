package engine

import (
	"time"

	"github.com/google/uuid"
)

// immutableColumns are stripped from every update payload regardless of
// what the caller supplied. This is a hard invariant: primary key, create
// audit, tenant owner and lifecycle flags are system-managed only.
var immutableColumns = map[string]bool{
	"id":         true,
	"created_by": true,
	"created_at": true,
	"updated_by": true,
	"updated_at": true,
	"tenant_id":  true,
	"is_deleted": true,
	"is_active":  true,
}

// RecordStamp carries the system-managed values for a fresh insert
type RecordStamp struct {
	ID        string
	CreatedBy string
	CreatedAt time.Time
}

// NewRecordStamp derives the create-time audit values. Lifecycle flags
// always start in their alive state; callers cannot pre-seed a record as
// deleted, handlers set them from the descriptor, not from input.
func NewRecordStamp(identity Identity) RecordStamp {
	return RecordStamp{
		ID:        uuid.NewString(),
		CreatedBy: identity.Principal,
		CreatedAt: time.Now().UTC(),
	}
}

// UpdateFields maps a sparse caller payload onto the entity's updatable
// columns and merges in the update audit stamp. Presence matters, not
// nullness: a key bound to an explicit null writes NULL. Keys outside the
// allow-list and immutable columns are dropped. An empty post-strip field
// set fails with NoFieldsToUpdate.
func UpdateFields(desc *Descriptor, payload map[string]interface{}, identity Identity) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(payload)+2)
	for key, value := range payload {
		column, ok := desc.Updatable[key]
		if !ok || immutableColumns[column] {
			continue
		}
		fields[column] = value
	}

	if len(fields) == 0 {
		return nil, NewError(KindNoFieldsToUpdate, "no updatable fields in request body")
	}

	fields["updated_by"] = identity.Principal
	fields["updated_at"] = time.Now().UTC()
	return fields, nil
}
