package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
)

// ============================================================
// Ledger unit of work
// ============================================================

// LedgerStore runs fn as one all-or-nothing unit. Rows read through the
// ...ForUpdate methods stay locked until the unit ends. When fn returns an
// error nothing it wrote is kept.
type LedgerStore interface {
	RunInTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the only write path for total_savings and remaining_balance.
type LedgerTx interface {
	GetMemberForUpdate(id string) (*models.Member, error)
	MemberPhoneExists(phone string) (bool, error)
	CreateMember(member *models.Member) error
	UpdateMemberSavings(id string, totalSavings decimal.Decimal, lastDepositAt time.Time) error

	GetDepositForUpdate(id string) (*models.Deposit, error)
	CreateDeposit(deposit *models.Deposit) error
	ResolveDeposit(deposit *models.Deposit) error

	CreateLoan(loan *models.Loan) error
	GetLoanForUpdate(id string) (*models.Loan, error)
	UpdateLoanBalance(id string, remaining decimal.Decimal, lastPaymentDate time.Time) error
	CreateRepayment(repayment *models.Repayment) error
	CreateTransaction(trx *models.LedgerTransaction) error

	GetJoinRequestForUpdate(id string) (*models.JoinRequest, error)
	ResolveJoinRequest(req *models.JoinRequest) error

	CreateAuditLog(entry *models.AuditLog) error
	CreateNotification(n *models.Notification) error
}

// ============================================================
// Read side and non-balance writes
// ============================================================

// MemberFilter narrows member listings
type MemberFilter struct {
	Search string // name, phone or reg_no substring
	Role   string
	Status string
}

// ProfileUpdate lists the member columns editable outside the ledger.
// Nil fields are left unchanged; balances are deliberately absent.
type ProfileUpdate struct {
	Name          *string
	FatherName    *string
	NID           *string
	RegNo         *string
	MonthlyTarget *decimal.Decimal
	Status        *string
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByPhone(ctx context.Context, phone string) (*models.Member, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error)
	ListActive(ctx context.Context) ([]*models.Member, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Count(ctx context.Context, role string) (int64, error)
	SumSavings(ctx context.Context) (decimal.Decimal, error)
}

// DepositRepository defines deposit repository interface
type DepositRepository interface {
	Create(ctx context.Context, deposit *models.Deposit) error
	GetByID(ctx context.Context, id string) (*models.Deposit, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Deposit, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Deposit, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Deposit, error)
	ExistsActiveTrxID(ctx context.Context, trxID string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// JoinRequestRepository defines join request repository interface
type JoinRequestRepository interface {
	Create(ctx context.Context, req *models.JoinRequest) error
	GetByID(ctx context.Context, id string) (*models.JoinRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*models.JoinRequest, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	ListActive(ctx context.Context) ([]*models.Loan, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Loan, error)
	ListRepayments(ctx context.Context, loanID string) ([]*models.Repayment, error)
	CountActive(ctx context.Context) (int64, error)
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
}

// NotificationRepository defines in-app notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipient string) (int64, error)
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
}

// NoticeRepository defines notice board repository interface
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	List(ctx context.Context, limit int) ([]*models.Notice, error)
	Delete(ctx context.Context, id string) error
}

// AuditLogRepository defines audit log repository interface
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, logType string, limit int) ([]*models.AuditLog, error)
}

// SettingRepository defines settings repository interface
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Put(ctx context.Context, setting *models.Setting) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Store bundles every repository the services depend on
type Store struct {
	Ledger        LedgerStore
	Members       MemberRepository
	Deposits      DepositRepository
	JoinRequests  JoinRequestRepository
	Loans         LoanRepository
	Notifications NotificationRepository
	Notices       NoticeRepository
	AuditLogs     AuditLogRepository
	Settings      SettingRepository
	RefreshTokens RefreshTokenRepository
	Health        HealthChecker
}
