// Package memory is an in-process implementation of every repository. Ledger
// units are serialised under one lock and staged on a copy of the tables, so a
// failed unit leaves nothing behind. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

type tables struct {
	members       map[string]models.Member
	joinRequests  map[string]models.JoinRequest
	deposits      map[string]models.Deposit
	loans         map[string]models.Loan
	repayments    map[string]models.Repayment
	transactions  map[string]models.LedgerTransaction
	auditLogs     map[string]models.AuditLog
	notifications map[string]models.Notification
	notices       map[string]models.Notice
	settings      map[string]models.Setting
	refreshTokens map[string]models.RefreshToken
}

func newTables() *tables {
	return &tables{
		members:       map[string]models.Member{},
		joinRequests:  map[string]models.JoinRequest{},
		deposits:      map[string]models.Deposit{},
		loans:         map[string]models.Loan{},
		repayments:    map[string]models.Repayment{},
		transactions:  map[string]models.LedgerTransaction{},
		auditLogs:     map[string]models.AuditLog{},
		notifications: map[string]models.Notification{},
		notices:       map[string]models.Notice{},
		settings:      map[string]models.Setting{},
		refreshTokens: map[string]models.RefreshToken{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		members:       maps.Clone(t.members),
		joinRequests:  maps.Clone(t.joinRequests),
		deposits:      maps.Clone(t.deposits),
		loans:         maps.Clone(t.loans),
		repayments:    maps.Clone(t.repayments),
		transactions:  maps.Clone(t.transactions),
		auditLogs:     maps.Clone(t.auditLogs),
		notifications: maps.Clone(t.notifications),
		notices:       maps.Clone(t.notices),
		settings:      maps.Clone(t.settings),
		refreshTokens: maps.Clone(t.refreshTokens),
	}
}

// Store holds all tables in memory and is safe for concurrent use
type Store struct {
	mu       sync.RWMutex
	data     *tables
	failNext error
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data: newTables(),
		now:  time.Now,
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Store {
	return &repositories.Store{
		Ledger:        s,
		Members:       &memberRepo{s: s},
		Deposits:      &depositRepo{s: s},
		JoinRequests:  &joinRequestRepo{s: s},
		Loans:         &loanRepo{s: s},
		Notifications: &notificationRepo{s: s},
		Notices:       &noticeRepo{s: s},
		AuditLogs:     &auditLogRepo{s: s},
		Settings:      &settingRepo{s: s},
		RefreshTokens: &refreshTokenRepo{s: s},
		Health:        s,
	}
}

// FailNextCommit makes the next ledger unit fail at commit time with err,
// after its function has run successfully.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// RunInTx implements repositories.LedgerStore
func (s *Store) RunInTx(ctx context.Context, fn func(tx repositories.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.data.clone()
	if err := fn(&ledgerTx{t: staged, now: s.now}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}

	s.data = staged
	return nil
}

// ============================================================
// LedgerTx
// ============================================================

type ledgerTx struct {
	t   *tables
	now func() time.Time
}

func (tx *ledgerTx) GetMemberForUpdate(id string) (*models.Member, error) {
	m, ok := tx.t.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (tx *ledgerTx) MemberPhoneExists(phone string) (bool, error) {
	return phoneTaken(tx.t, phone), nil
}

func (tx *ledgerTx) CreateMember(member *models.Member) error {
	return insertMember(tx.t, member, tx.now())
}

func (tx *ledgerTx) UpdateMemberSavings(id string, totalSavings decimal.Decimal, lastDepositAt time.Time) error {
	m, ok := tx.t.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.TotalSavings = totalSavings
	m.LastDepositAt = &lastDepositAt
	m.UpdatedAt = tx.now()
	tx.t.members[id] = m
	return nil
}

func (tx *ledgerTx) GetDepositForUpdate(id string) (*models.Deposit, error) {
	d, ok := tx.t.deposits[id]
	if !ok {
		return nil, domain.ErrDepositNotFound
	}
	return &d, nil
}

func (tx *ledgerTx) CreateDeposit(deposit *models.Deposit) error {
	return insertDeposit(tx.t, deposit, tx.now())
}

func (tx *ledgerTx) ResolveDeposit(deposit *models.Deposit) error {
	d, ok := tx.t.deposits[deposit.ID]
	if !ok {
		return domain.ErrDepositNotFound
	}
	d.Status = deposit.Status
	d.ResolvedAt = deposit.ResolvedAt
	d.ResolvedBy = deposit.ResolvedBy
	d.ResolvedByID = deposit.ResolvedByID
	d.RejectReason = deposit.RejectReason
	tx.t.deposits[d.ID] = d
	return nil
}

func (tx *ledgerTx) CreateLoan(loan *models.Loan) error {
	if err := requireID(loan.ID); err != nil {
		return err
	}
	if _, exists := tx.t.loans[loan.ID]; exists {
		return fmt.Errorf("loan %s: %w", loan.ID, domain.ErrConflict)
	}
	now := tx.now()
	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = now
	}
	loan.UpdatedAt = now
	tx.t.loans[loan.ID] = *loan
	return nil
}

func (tx *ledgerTx) GetLoanForUpdate(id string) (*models.Loan, error) {
	l, ok := tx.t.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return &l, nil
}

func (tx *ledgerTx) UpdateLoanBalance(id string, remaining decimal.Decimal, lastPaymentDate time.Time) error {
	l, ok := tx.t.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	l.RemainingBalance = remaining
	l.LastPaymentDate = &lastPaymentDate
	l.UpdatedAt = tx.now()
	tx.t.loans[id] = l
	return nil
}

func (tx *ledgerTx) CreateRepayment(repayment *models.Repayment) error {
	if err := requireID(repayment.ID); err != nil {
		return err
	}
	tx.t.repayments[repayment.ID] = *repayment
	return nil
}

func (tx *ledgerTx) CreateTransaction(trx *models.LedgerTransaction) error {
	if err := requireID(trx.ID); err != nil {
		return err
	}
	tx.t.transactions[trx.ID] = *trx
	return nil
}

func (tx *ledgerTx) GetJoinRequestForUpdate(id string) (*models.JoinRequest, error) {
	r, ok := tx.t.joinRequests[id]
	if !ok {
		return nil, domain.ErrJoinRequestNotFound
	}
	return &r, nil
}

func (tx *ledgerTx) ResolveJoinRequest(req *models.JoinRequest) error {
	r, ok := tx.t.joinRequests[req.ID]
	if !ok {
		return domain.ErrJoinRequestNotFound
	}
	r.Status = req.Status
	r.ResolvedAt = req.ResolvedAt
	r.ResolvedBy = req.ResolvedBy
	r.RejectReason = req.RejectReason
	tx.t.joinRequests[r.ID] = r
	return nil
}

func (tx *ledgerTx) CreateAuditLog(entry *models.AuditLog) error {
	return insertAuditLog(tx.t, entry, tx.now())
}

func (tx *ledgerTx) CreateNotification(n *models.Notification) error {
	return insertNotification(tx.t, n, tx.now())
}

// ============================================================
// shared insert helpers (callers hold the lock)
// ============================================================

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required: %w", domain.ErrInvalidArgument)
	}
	return nil
}

func phoneTaken(t *tables, phone string) bool {
	for _, m := range t.members {
		if m.Phone == phone {
			return true
		}
	}
	return false
}

func insertMember(t *tables, member *models.Member, now time.Time) error {
	if err := requireID(member.ID); err != nil {
		return err
	}
	if _, exists := t.members[member.ID]; exists {
		return fmt.Errorf("member %s: %w", member.ID, domain.ErrConflict)
	}
	if phoneTaken(t, member.Phone) {
		return domain.ErrPhoneAlreadyExists
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	if member.Status == "" {
		member.Status = domain.MemberActive
	}
	t.members[member.ID] = *member
	return nil
}

func insertDeposit(t *tables, deposit *models.Deposit, now time.Time) error {
	if err := requireID(deposit.ID); err != nil {
		return err
	}
	if _, exists := t.deposits[deposit.ID]; exists {
		return fmt.Errorf("deposit %s: %w", deposit.ID, domain.ErrConflict)
	}
	if deposit.CreatedAt.IsZero() {
		deposit.CreatedAt = now
	}
	t.deposits[deposit.ID] = *deposit
	return nil
}

func insertAuditLog(t *tables, entry *models.AuditLog, now time.Time) error {
	if err := requireID(entry.ID); err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
	t.auditLogs[entry.ID] = *entry
	return nil
}

func insertNotification(t *tables, n *models.Notification, now time.Time) error {
	if err := requireID(n.ID); err != nil {
		return err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	t.notifications[n.ID] = *n
	return nil
}
