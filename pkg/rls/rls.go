package rls

import (
	"fmt"

	"gorm.io/gorm"
)

// WithTenant sets the session-level tenant id consumed by row-level
// security policies. Best-effort; callers decide whether failure matters.
func WithTenant(tx *gorm.DB, tenantID int64) error {
	return tx.Exec(
		"SET app.current_tenant_id = ?",
		fmt.Sprintf("%d", tenantID),
	).Error
}
