package engine

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// Assemble builds a composite resource: the primary row plus the
// descriptor's discriminated extensions and ordered child collections,
// merged into one document. Reads are all-or-nothing: any failing
// section fails the whole fetch rather than silently omitting data.
func Assemble(db *gorm.DB, desc *Descriptor, id string, identity Identity) (map[string]interface{}, error) {
	primary := map[string]interface{}{}
	err := desc.visibleScope(db.Table(desc.Table), identity).
		Where(desc.IDColumn+" = ?", id).
		Take(&primary).Error
	if err != nil {
		return nil, Normalize(err)
	}

	for _, ext := range desc.Extensions {
		// Extension absent, or discriminator mismatch, yields an
		// explicit null section. A stray row under a mismatched
		// discriminator is never surfaced.
		primary[ext.Name] = nil
		if discriminatorValue(primary[ext.DiscriminatorColumn]) != ext.DiscriminatorValue {
			continue
		}

		row := map[string]interface{}{}
		err := db.Table(ext.Table).Where(ext.ParentColumn+" = ?", id).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, Normalize(err)
		}
		primary[ext.Name] = row
	}

	for _, child := range desc.Children {
		rows := []map[string]interface{}{}
		err := db.Table(child.Table).
			Where(child.ParentColumn+" = ?", id).
			Order(child.Order).
			Find(&rows).Error
		if err != nil {
			return nil, Normalize(err)
		}
		// Absent collection is an empty sequence, never null
		primary[child.Name] = rows
	}

	return primary, nil
}

// discriminatorValue coerces a scanned discriminator column to int64.
// Drivers report small integer columns with different Go types.
func discriminatorValue(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		parsed, _ := strconv.ParseInt(string(n), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	case nil:
		return 0
	default:
		parsed, _ := strconv.ParseInt(fmt.Sprint(n), 10, 64)
		return parsed
	}
}
