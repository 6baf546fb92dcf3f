package engine

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Page is the canonical pagination request
type Page struct {
	Page  int
	Limit int
}

// ParsePage clamps raw query values into the canonical pagination
// contract: page >= 1 (default 1), limit 1..100 (default 20).
func ParsePage(pageStr, limitStr string) Page {
	page := defaultPage
	if v, err := strconv.Atoi(pageStr); err == nil && v >= 1 {
		page = v
	}
	limit := defaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v >= 1 {
		limit = v
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the row offset for the data query
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListMeta is the pagination envelope returned with every list response
type ListMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// MetaFor computes the pagination envelope for a page over total rows
func MetaFor(page Page, total int64) ListMeta {
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return ListMeta{
		Page:        page.Page,
		Limit:       page.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page.Page < totalPages,
		HasPrevPage: page.Page > 1,
	}
}

// ListParams carries the caller-supplied list inputs. Filters are keyed
// by query-parameter name; only names in the descriptor's allow-list are
// ever applied, anything else is ignored. Search applies a
// case-insensitive substring match across the descriptor's search
// columns.
type ListParams struct {
	Filters map[string]string
	Search  string
	Page    Page
}

// filterScope applies the allow-listed exact filters and the search
// predicate. Column names come exclusively from the descriptor; caller
// values are always bound as parameters.
func (d *Descriptor) filterScope(tx *gorm.DB, params ListParams) *gorm.DB {
	for key, value := range params.Filters {
		column, ok := d.Filterable[key]
		if !ok {
			continue
		}
		tx = tx.Where(column+" = ?", value)
	}

	if params.Search != "" && len(d.Searchable) > 0 {
		clauses := make([]string, len(d.Searchable))
		args := make([]interface{}, len(d.Searchable))
		pattern := "%" + strings.ToLower(params.Search) + "%"
		for i, column := range d.Searchable {
			clauses[i] = "LOWER(" + column + ") LIKE ?"
			args[i] = pattern
		}
		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}

	return tx
}

// List runs the count and data queries for a filtered, paginated listing.
// Both queries share the exact same predicate scope; that equivalence is
// what keeps total consistent with the returned rows. A page past the end
// yields an empty result, not an error.
func List(db *gorm.DB, desc *Descriptor, identity Identity, params ListParams, dest interface{}) (*ListMeta, error) {
	scoped := func() *gorm.DB {
		tx := db.Table(desc.Table)
		tx = desc.visibleScope(tx, identity)
		return desc.filterScope(tx, params)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, Normalize(err)
	}

	err := scoped().
		Order(desc.DefaultSort).
		Limit(params.Page.Limit).
		Offset(params.Page.Offset()).
		Find(dest).Error
	if err != nil {
		return nil, Normalize(err)
	}

	meta := MetaFor(params.Page, total)
	return &meta, nil
}

// Get fetches one visible row into dest
func Get(db *gorm.DB, desc *Descriptor, id string, identity Identity, dest interface{}) error {
	err := desc.visibleScope(db.Table(desc.Table), identity).
		Where(desc.IDColumn+" = ?", id).
		Take(dest).Error
	if err != nil {
		return Normalize(err)
	}
	return nil
}

// Update applies a presence-based partial update to one visible row.
// The payload is filtered through the descriptor's allow-list and
// re-stamped with updated_by/updated_at before execution.
func Update(db *gorm.DB, desc *Descriptor, id string, identity Identity, payload map[string]interface{}) error {
	visible, err := Visible(db, desc, id, identity)
	if err != nil {
		return err
	}
	if !visible {
		return NewError(KindNotFound, desc.Entity+" not found")
	}

	fields, uerr := UpdateFields(desc, payload, identity)
	if uerr != nil {
		return uerr
	}

	if err := db.Table(desc.Table).Where(desc.IDColumn+" = ?", id).Updates(fields).Error; err != nil {
		return Normalize(err)
	}
	return nil
}

// Delete removes one visible row. Entities with a lifecycle flag flip it
// and re-stamp the update audit; flagless entities hard-delete the row.
// The choice is the descriptor's fixed property, never a runtime decision.
func Delete(db *gorm.DB, desc *Descriptor, id string, identity Identity) error {
	visible, err := Visible(db, desc, id, identity)
	if err != nil {
		return err
	}
	if !visible {
		return NewError(KindNotFound, desc.Entity+" not found")
	}

	if desc.HardDelete() {
		if err := db.Exec("DELETE FROM "+desc.Table+" WHERE "+desc.IDColumn+" = ?", id).Error; err != nil {
			return Normalize(err)
		}
		return nil
	}

	stamp := map[string]interface{}{
		"updated_by": identity.Principal,
		"updated_at": time.Now().UTC(),
	}
	if desc.SoftDeleteColumn != "" {
		stamp[desc.SoftDeleteColumn] = true
	} else {
		stamp[desc.ActiveColumn] = false
	}

	if err := db.Table(desc.Table).Where(desc.IDColumn+" = ?", id).Updates(stamp).Error; err != nil {
		return Normalize(err)
	}
	return nil
}
