package engine

import "gorm.io/gorm"

// FKCheck declares one foreign-key-shaped input to validate before a
// write. Value nil or empty means "no reference" and always passes.
type FKCheck struct {
	// Field is the JSON field name reported on failure
	Field string
	// Desc is the referenced entity's descriptor
	Desc *Descriptor
	// Value is the referenced id; nil skips validation
	Value *string
}

// ValidateFKs checks every reference against the store before the write
// proceeds. Tenant-scoped targets must be owned by the caller's tenant;
// global targets only need to exist and be alive. The first failing
// check aborts with InvalidReference naming the field, so a failed
// validation never leaves a partial insert behind.
func ValidateFKs(db *gorm.DB, tenantID uint, checks ...FKCheck) error {
	for _, check := range checks {
		if check.Value == nil || *check.Value == "" {
			continue
		}
		ok, err := Owned(db, check.Desc, *check.Value, tenantID)
		if err != nil {
			return err
		}
		if !ok {
			return FieldError(KindInvalidReference, check.Field,
				check.Field+" does not reference an existing "+check.Desc.Entity)
		}
	}
	return nil
}
