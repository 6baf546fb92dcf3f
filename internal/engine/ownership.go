package engine

import "gorm.io/gorm"

// Visible reports whether the identified row exists, is alive, and is
// owned by the caller's tenant (for tenant-scoped entities). This is the
// single visibility check behind get, update and delete.
func Visible(db *gorm.DB, desc *Descriptor, id string, identity Identity) (bool, error) {
	var count int64
	tx := desc.visibleScope(db.Table(desc.Table), identity).
		Where(desc.IDColumn+" = ?", id)
	if err := tx.Count(&count).Error; err != nil {
		return false, Normalize(err)
	}
	return count > 0, nil
}

// Owned is the foreign-key variant of Visible: a nil or empty value is
// "no reference" and passes without querying; global entities skip the
// owner predicate but still honor their lifecycle flag.
func Owned(db *gorm.DB, desc *Descriptor, id string, tenantID uint) (bool, error) {
	if id == "" {
		return true, nil
	}

	var count int64
	tx := db.Table(desc.Table).Where(desc.IDColumn+" = ?", id)
	if desc.TenantScoped() {
		tx = tx.Where(desc.OwnerColumn+" = ?", tenantID)
	}
	tx = desc.aliveScope(tx)

	if err := tx.Count(&count).Error; err != nil {
		return false, Normalize(err)
	}
	return count > 0, nil
}
