package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleMember  Role = "member"
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

// IsStaff reports whether the role may act on the ledger
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleCashier
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleCashier, RoleAdmin:
		return true
	}
	return false
}

// RequestStatus is the lifecycle of deposit and join requests
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether the status can no longer change
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Member account status
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// LoanStatusApproved is the only loan status: loans are issued, never pending
const LoanStatusApproved = "approved"

// Category tags shared by notifications and audit log entries
type Category string

const (
	CategorySuccess  Category = "success"
	CategoryError    Category = "error"
	CategoryDanger   Category = "danger"
	CategoryLoan     Category = "loan"
	CategorySecurity Category = "security"
	CategoryInfo     Category = "info"
)

// Payment methods accepted on deposit requests
const (
	MethodBkash       = "bkash"
	MethodNagad       = "nagad"
	MethodRocket      = "rocket"
	MethodCash        = "cash"
	MethodCashByStaff = "Cash (Admin)"
)

// IsElectronicMethod reports whether the method needs an external transaction reference
func IsElectronicMethod(method string) bool {
	switch method {
	case MethodBkash, MethodNagad, MethodRocket:
		return true
	}
	return false
}

// LedgerTxTypeLoanRepayment tags rows in the transactions table
const LedgerTxTypeLoanRepayment = "loan_repayment"

// PeriodLayout is the "Month Year" label used for deposit periods, e.g. "March 2025"
const PeriodLayout = "January 2006"

// PeriodLabel formats t as a deposit period label
func PeriodLabel(t time.Time) string {
	return t.Format(PeriodLayout)
}

// Actor is the authenticated identity performing an operation
type Actor struct {
	ID   string
	Name string
	Role Role
}

// DisplayName falls back to "Admin" the way resolution records always carried a name
func (a Actor) DisplayName() string {
	if a.Name == "" {
		return "Admin"
	}
	return a.Name
}

// EventKind identifies what happened in the ledger
type EventKind string

const (
	EventDepositApproved EventKind = "deposit_approved"
	EventDepositRejected EventKind = "deposit_rejected"
	EventDirectDeposit   EventKind = "direct_deposit"
	EventLoanRepayment   EventKind = "loan_repayment"
	EventCollectionOpen  EventKind = "collection_open"
)

// Event is emitted to the notification dispatcher after a ledger commit
type Event struct {
	Kind        EventKind
	RecipientID string
	Title       string
	Body        string
	Category    Category
	OccurredAt  time.Time
}
