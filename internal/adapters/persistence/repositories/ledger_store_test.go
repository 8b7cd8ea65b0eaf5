package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// newDryRunTx builds a ledger tx that renders MySQL statements without a server
// and records every rendered statement.
func newDryRunTx(t *testing.T) (*gormLedgerTx, *[]string) {
	t.Helper()
	db, err := gorm.Open(mysqldriver.New(mysqldriver.Config{
		DSN:                       "somity:secret@tcp(127.0.0.1:3306)/ledger?parseTime=True&clientFoundRows=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var statements []string
	record := func(tx *gorm.DB) { statements = append(statements, tx.Statement.SQL.String()) }
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", record))

	return &gormLedgerTx{db: db}, &statements
}

func TestGormLedgerTx_LockedReads(t *testing.T) {
	tests := []struct {
		name  string
		table string
		read  func(tx *gormLedgerTx) error
	}{
		{"member", "`users`", func(tx *gormLedgerTx) error { _, err := tx.GetMemberForUpdate("m1"); return err }},
		{"deposit", "`deposits`", func(tx *gormLedgerTx) error { _, err := tx.GetDepositForUpdate("d1"); return err }},
		{"loan", "`loans`", func(tx *gormLedgerTx) error { _, err := tx.GetLoanForUpdate("l1"); return err }},
		{"join request", "`member_requests`", func(tx *gormLedgerTx) error { _, err := tx.GetJoinRequestForUpdate("j1"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, statements := newDryRunTx(t)
			require.NoError(t, tt.read(tx))

			require.Len(t, *statements, 1)
			sql := (*statements)[0]
			assert.Contains(t, sql, "FROM "+tt.table)
			assert.Contains(t, sql, "WHERE id = ?")
			assert.Contains(t, sql, "FOR UPDATE")
		})
	}
}

func TestGormLedgerTx_UpdatesTouchOnlyOwnColumns(t *testing.T) {
	tx, statements := newDryRunTx(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// a dry run affects no rows, so every update reports its not-found error
	err := tx.UpdateMemberSavings("m1", decimal.NewFromInt(500), now)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	err = tx.UpdateLoanBalance("l1", decimal.NewFromInt(100), now)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	err = tx.ResolveDeposit(&models.Deposit{ID: "d1", Status: string(domain.StatusApproved), ResolvedAt: &now})
	assert.ErrorIs(t, err, domain.ErrDepositNotFound)

	require.Len(t, *statements, 3)
	assert.Contains(t, (*statements)[0], "UPDATE `users` SET")
	assert.Contains(t, (*statements)[0], "`total_savings`=?")
	assert.NotContains(t, (*statements)[0], "`name`")
	assert.Contains(t, (*statements)[1], "`remaining_balance`=?")
	assert.Contains(t, (*statements)[2], "`status`=?")
	assert.NotContains(t, (*statements)[2], "`amount`")
	for _, sql := range *statements {
		assert.Contains(t, sql, "WHERE id = ?")
	}
}

func TestRowsOrNotFound(t *testing.T) {
	assert.NoError(t, rowsOrNotFound(&gorm.DB{RowsAffected: 1}, domain.ErrLoanNotFound))
	assert.ErrorIs(t, rowsOrNotFound(&gorm.DB{}, domain.ErrLoanNotFound), domain.ErrLoanNotFound)

	failed := &gorm.DB{Error: errors.New("connection refused")}
	err := rowsOrNotFound(failed, domain.ErrLoanNotFound)
	assert.EqualError(t, err, "connection refused")
}
