package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Members & Auth
// ============================================================

// Member represents users table. Staff (cashier, admin) live here too.
type Member struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Phone         string          `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	PasswordHash  string          `gorm:"size:255;not null" json:"-"`
	Role          string          `gorm:"size:20;not null;default:'member';index" json:"role"`
	TotalSavings  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_savings"`
	MonthlyTarget decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"monthly_target"`
	RegNo         string          `gorm:"size:20;index" json:"reg_no"`
	FatherName    string          `gorm:"size:100" json:"father_name,omitempty"`
	NID           string          `gorm:"column:nid;size:30" json:"nid,omitempty"`
	Status        string          `gorm:"size:20;not null;default:'active'" json:"status"`
	LastDepositAt *time.Time      `json:"last_deposit_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "users"
}

// IsActive reports whether the account may log in
func (m *Member) IsActive() bool {
	return m.Status == "" || m.Status == "active"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Request Queue
// ============================================================

// JoinRequest represents member_requests table (self-registration awaiting staff review)
type JoinRequest struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Phone         string          `gorm:"size:20;not null;index" json:"phone"`
	FatherName    string          `gorm:"size:100" json:"father_name,omitempty"`
	NID           string          `gorm:"column:nid;size:30" json:"nid,omitempty"`
	RegNo         string          `gorm:"size:20" json:"reg_no,omitempty"`
	MonthlyTarget decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"monthly_target"`
	PasswordHash  string          `gorm:"size:255;not null" json:"-"`
	Status        string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RejectReason  string          `gorm:"type:text" json:"reject_reason,omitempty"`
	ResolvedBy    string          `gorm:"size:100" json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (JoinRequest) TableName() string {
	return "member_requests"
}

// Deposit represents deposits table
type Deposit struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	UserID       string          `gorm:"size:36;not null;index" json:"user_id"`
	UserName     string          `gorm:"size:100" json:"user_name"`
	RegNo        string          `gorm:"size:20" json:"reg_no,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method       string          `gorm:"size:20;not null" json:"method"`
	TrxID        string          `gorm:"size:64;index" json:"trx_id,omitempty"`
	CollectedBy  string          `gorm:"size:100" json:"collected_by,omitempty"`
	ForMonth     string          `gorm:"size:20" json:"for_month"`
	Status       string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy   string          `gorm:"size:100" json:"resolved_by,omitempty"`
	ResolvedByID string          `gorm:"size:36" json:"resolved_by_id,omitempty"`
	RejectReason string          `gorm:"type:text" json:"reject_reason,omitempty"`
}

func (Deposit) TableName() string {
	return "deposits"
}

// ============================================================
// Loans
// ============================================================

// Loan represents loans table. MonthlyInstallment keeps full precision.
type Loan struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	UserID             string          `gorm:"size:36;not null;index" json:"user_id"`
	MemberName         string          `gorm:"size:100" json:"member_name"`
	MemberPhone        string          `gorm:"size:20" json:"member_phone"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	Duration           int             `gorm:"not null" json:"duration"`
	TotalPayable       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_payable"`
	MonthlyInstallment decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"monthly_installment"`
	RemainingBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;index" json:"remaining_balance"`
	Status             string          `gorm:"size:20;not null;default:'approved'" json:"status"`
	IssuedBy           string          `gorm:"size:100" json:"issued_by"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// Repayment represents repayments table
type Repayment struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	LoanID      string          `gorm:"size:36;not null;index" json:"loan_id"`
	UserID      string          `gorm:"size:36;not null;index" json:"user_id"`
	MemberName  string          `gorm:"size:100" json:"member_name"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"paid_amount"`
	CollectedBy string          `gorm:"size:100" json:"collected_by"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}

func (Repayment) TableName() string {
	return "repayments"
}

// LedgerTransaction represents transactions table, the cashbook of collected repayments
type LedgerTransaction struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	LoanID      string          `gorm:"size:36;index" json:"loan_id"`
	MemberID    string          `gorm:"size:36;index" json:"member_id"`
	MemberName  string          `gorm:"size:100" json:"member_name"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        string          `gorm:"size:30;not null" json:"type"`
	CollectedBy string          `gorm:"size:100" json:"collected_by"`
	Timestamp   time.Time       `gorm:"not null;index" json:"timestamp"`
}

func (LedgerTransaction) TableName() string {
	return "transactions"
}

// ============================================================
// Audit, Notifications, Notices, Settings
// ============================================================

// AuditLog represents logs table
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ActorID   string    `gorm:"size:36;index" json:"actor_id"`
	AdminName string    `gorm:"size:100" json:"admin_name"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	Type      string    `gorm:"size:20;index" json:"type"`
	RefID     string    `gorm:"size:36;index" json:"ref_id,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "logs"
}

// Notification represents notifications table (in-app inbox)
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Recipient string    `gorm:"size:36;not null;index:idx_notifications_recipient_read" json:"recipient"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Read      bool      `gorm:"not null;default:false;index:idx_notifications_recipient_read" json:"read"`
	Type      string    `gorm:"size:20" json:"type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Notice represents notices table (board announcements)
type Notice struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Author    string    `gorm:"size:100" json:"author"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notice) TableName() string {
	return "notices"
}

// Setting represents settings table: one JSON document per key
type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"type:json;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys
const (
	SettingPay        = "pay_settings"
	SettingCollection = "collection_config"
)

// AutoMigrate creates or updates every table the ledger owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&JoinRequest{},
		&Deposit{},
		&Loan{},
		&Repayment{},
		&LedgerTransaction{},
		&AuditLog{},
		&Notification{},
		&Notice{},
		&Setting{},
	)
}
