package repo

import (
	"context"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/pkg/logging"
)

// LogTransaction appends to the audit trail. Best-effort: a failed
// insert is logged and swallowed so it can never fail a user operation.
func (r *GormRepo) LogTransaction(ctx context.Context, userID uint, action, details, status, ip string) {
	entry := models.TransactionLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Status:    status,
		IPAddress: ip,
	}
	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		logging.FromContext(ctx).Error("transaction log write failed", "action", action, "error", err)
	}
}
