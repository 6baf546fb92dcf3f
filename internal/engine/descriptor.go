package engine

import "gorm.io/gorm"

// Identity is the caller's resolved tenant identity, attached to the
// request context by the auth middleware.
type Identity struct {
	TenantID  uint
	Principal string
}

// Extension describes a 1:0..1 record that exists only when the parent's
// discriminator column holds a specific value.
type Extension struct {
	// Name is the JSON section key in the assembled resource
	Name string
	// Table holds the extension rows, keyed by ParentColumn
	Table string
	// ParentColumn is the extension column referencing the parent id
	ParentColumn string
	// DiscriminatorColumn is the parent column selecting this extension
	DiscriminatorColumn string
	// DiscriminatorValue is the parent value this extension requires
	DiscriminatorValue int64
}

// ChildCollection describes an ordered 1:N child table of a composite
// resource.
type ChildCollection struct {
	Name         string
	Table        string
	ParentColumn string
	// Order is the collection's canonical sort, e.g. "created_at ASC"
	Order string
}

// Descriptor declares everything the engine needs to operate on one
// entity: identity columns, tenant scoping, lifecycle flags, the filter
// and update allow-lists, and composite sections. One code path serves
// every entity; descriptors are the only per-entity variation.
type Descriptor struct {
	// Entity is the metric/log label
	Entity string
	Table  string
	// IDColumn is the primary-key column, always "id" in this schema
	IDColumn string
	// OwnerColumn is the tenant column; empty for global entities
	OwnerColumn string
	// SoftDeleteColumn flags deleted rows when true; empty when the
	// entity hard-deletes. Mutually exclusive with ActiveColumn.
	SoftDeleteColumn string
	// ActiveColumn flags live rows when true; empty when unused.
	ActiveColumn string
	// Filterable maps query-parameter names to columns eligible for
	// exact-match filters. Only these names ever reach SQL text.
	Filterable map[string]string
	// Searchable lists the text columns the "search" parameter matches
	// against, OR'd together, case-insensitive substring.
	Searchable []string
	// DefaultSort is the entity's canonical order, e.g. "created_at DESC"
	DefaultSort string
	// Updatable maps JSON payload keys to columns eligible for partial
	// updates. Immutable fields (id, audit, owner, flags) are never
	// listed here.
	Updatable map[string]string

	Extensions []Extension
	Children   []ChildCollection
}

// TenantScoped reports whether rows carry a tenant owner
func (d *Descriptor) TenantScoped() bool {
	return d.OwnerColumn != ""
}

// HardDelete reports whether delete removes the row instead of flipping
// a lifecycle flag. A fixed per-entity property.
func (d *Descriptor) HardDelete() bool {
	return d.SoftDeleteColumn == "" && d.ActiveColumn == ""
}

// aliveScope restricts a query to rows whose lifecycle flag, if any,
// indicates the row is live.
func (d *Descriptor) aliveScope(tx *gorm.DB) *gorm.DB {
	if d.SoftDeleteColumn != "" {
		return tx.Where(d.SoftDeleteColumn+" = ?", false)
	}
	if d.ActiveColumn != "" {
		return tx.Where(d.ActiveColumn+" = ?", true)
	}
	return tx
}

// visibleScope restricts a query to rows the identity may see: owned by
// the caller's tenant (when tenant-scoped) and alive.
func (d *Descriptor) visibleScope(tx *gorm.DB, identity Identity) *gorm.DB {
	if d.TenantScoped() {
		tx = tx.Where(d.OwnerColumn+" = ?", identity.TenantID)
	}
	return d.aliveScope(tx)
}
