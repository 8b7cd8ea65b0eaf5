package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// gormLedgerStore implements LedgerStore on a MySQL transaction
type gormLedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a ledger store backed by db
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &gormLedgerStore{db: db}
}

// RunInTx wraps fn in BEGIN/COMMIT; any error from fn rolls back
func (s *gormLedgerStore) RunInTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{db: tx})
	})
	return mapError(err, nil)
}

// gormLedgerTx implements LedgerTx inside one *gorm.DB transaction
type gormLedgerTx struct {
	db *gorm.DB
}

func (t *gormLedgerTx) forUpdate() *gorm.DB {
	return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ---------- members ----------

func (t *gormLedgerTx) GetMemberForUpdate(id string) (*models.Member, error) {
	var member models.Member
	if err := t.forUpdate().Where("id = ?", id).First(&member).Error; err != nil {
		return nil, mapError(err, domain.ErrMemberNotFound)
	}
	return &member, nil
}

func (t *gormLedgerTx) MemberPhoneExists(phone string) (bool, error) {
	var count int64
	err := t.db.Model(&models.Member{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, mapError(err, nil)
}

func (t *gormLedgerTx) CreateMember(member *models.Member) error {
	return mapError(t.db.Create(member).Error, nil)
}

func (t *gormLedgerTx) UpdateMemberSavings(id string, totalSavings decimal.Decimal, lastDepositAt time.Time) error {
	res := t.db.Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_savings":   totalSavings,
			"last_deposit_at": lastDepositAt,
		})
	return rowsOrNotFound(res, domain.ErrMemberNotFound)
}

// ---------- deposits ----------

func (t *gormLedgerTx) GetDepositForUpdate(id string) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := t.forUpdate().Where("id = ?", id).First(&deposit).Error; err != nil {
		return nil, mapError(err, domain.ErrDepositNotFound)
	}
	return &deposit, nil
}

func (t *gormLedgerTx) CreateDeposit(deposit *models.Deposit) error {
	return mapError(t.db.Create(deposit).Error, nil)
}

// ResolveDeposit writes only the resolution columns
func (t *gormLedgerTx) ResolveDeposit(deposit *models.Deposit) error {
	res := t.db.Model(&models.Deposit{}).
		Where("id = ?", deposit.ID).
		Updates(map[string]interface{}{
			"status":         deposit.Status,
			"resolved_at":    deposit.ResolvedAt,
			"resolved_by":    deposit.ResolvedBy,
			"resolved_by_id": deposit.ResolvedByID,
			"reject_reason":  deposit.RejectReason,
		})
	return rowsOrNotFound(res, domain.ErrDepositNotFound)
}

// ---------- loans ----------

func (t *gormLedgerTx) CreateLoan(loan *models.Loan) error {
	return mapError(t.db.Create(loan).Error, nil)
}

func (t *gormLedgerTx) GetLoanForUpdate(id string) (*models.Loan, error) {
	var loan models.Loan
	if err := t.forUpdate().Where("id = ?", id).First(&loan).Error; err != nil {
		return nil, mapError(err, domain.ErrLoanNotFound)
	}
	return &loan, nil
}

func (t *gormLedgerTx) UpdateLoanBalance(id string, remaining decimal.Decimal, lastPaymentDate time.Time) error {
	res := t.db.Model(&models.Loan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"remaining_balance": remaining,
			"last_payment_date": lastPaymentDate,
		})
	return rowsOrNotFound(res, domain.ErrLoanNotFound)
}

func (t *gormLedgerTx) CreateRepayment(repayment *models.Repayment) error {
	return mapError(t.db.Create(repayment).Error, nil)
}

func (t *gormLedgerTx) CreateTransaction(trx *models.LedgerTransaction) error {
	return mapError(t.db.Create(trx).Error, nil)
}

// ---------- join requests ----------

func (t *gormLedgerTx) GetJoinRequestForUpdate(id string) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := t.forUpdate().Where("id = ?", id).First(&req).Error; err != nil {
		return nil, mapError(err, domain.ErrJoinRequestNotFound)
	}
	return &req, nil
}

func (t *gormLedgerTx) ResolveJoinRequest(req *models.JoinRequest) error {
	res := t.db.Model(&models.JoinRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":        req.Status,
			"resolved_at":   req.ResolvedAt,
			"resolved_by":   req.ResolvedBy,
			"reject_reason": req.RejectReason,
		})
	return rowsOrNotFound(res, domain.ErrJoinRequestNotFound)
}

// ---------- side records ----------

func (t *gormLedgerTx) CreateAuditLog(entry *models.AuditLog) error {
	return mapError(t.db.Create(entry).Error, nil)
}

func (t *gormLedgerTx) CreateNotification(n *models.Notification) error {
	return mapError(t.db.Create(n).Error, nil)
}

// rowsOrNotFound maps an UPDATE that matched nothing to notFound. The DSN must
// set clientFoundRows=true, otherwise MySQL reports changed rows and a no-op
// UPDATE of an existing row would look missing.
func rowsOrNotFound(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return mapError(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
