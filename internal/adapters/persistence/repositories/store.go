package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// NewGormStore wires every repository onto one MySQL connection
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Ledger:        NewLedgerStore(db),
		Members:       NewMemberRepository(db),
		Deposits:      NewDepositRepository(db),
		JoinRequests:  NewJoinRequestRepository(db),
		Loans:         NewLoanRepository(db),
		Notifications: NewNotificationRepository(db),
		Notices:       NewNoticeRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
		Settings:      NewSettingRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Health:        gormHealth{db: db},
	}
}

type gormHealth struct {
	db *gorm.DB
}

func (h gormHealth) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return mapError(sqlDB.PingContext(ctx), nil)
}
