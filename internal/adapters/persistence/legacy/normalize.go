package legacy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// virtualEmailDomain is the suffix of the phone-derived login e-mails
const virtualEmailDomain = "@somity.com"

// Hasher turns a plaintext password into a stored hash
type Hasher func(plain string) (string, error)

// NormalizePeriod resolves a deposit period label to "March 2025". Bare month
// names take the year from at; an empty label falls back to at itself.
func NormalizePeriod(label string, at time.Time) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		if at.IsZero() {
			return "", nil
		}
		return domain.PeriodLabel(at), nil
	}

	for _, layout := range []string{domain.PeriodLayout, "Jan 2006", "2006-01", "01/2006"} {
		if t, err := time.Parse(layout, label); err == nil {
			return domain.PeriodLabel(t), nil
		}
	}
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, label); err == nil {
			year := at.Year()
			if at.IsZero() {
				year = time.Now().Year()
			}
			return domain.PeriodLabel(time.Date(year, t.Month(), 1, 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return "", fmt.Errorf("%q: %w", label, domain.ErrInvalidPeriod)
}

// NormalizeMethod maps the spellings seen in old deposits onto the method constants
func NormalizeMethod(raw string) string {
	m := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case m == "":
		return domain.MethodCash
	case strings.HasPrefix(m, "cash (") || m == "cash by admin":
		return domain.MethodCashByStaff
	}
	return m
}

func normalizeCategory(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return string(domain.CategoryInfo)
	}
	return c
}

func normalizeStatus(raw string, fallback string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return fallback
	}
	return s
}

func phoneFrom(d Doc) string {
	if p := d.Str("phone"); p != "" {
		return p
	}
	return strings.TrimSuffix(d.Str("email"), virtualEmailDomain)
}

func timePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}

func requireDocID(collection, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: document without id: %w", collection, domain.ErrInvalidArgument)
	}
	return nil
}

// Member converts a users document. Old accounts never had a stored password,
// so passwordHash is applied to every imported account.
func Member(id string, d Doc, passwordHash string) (*models.Member, error) {
	if err := requireDocID(CollectionUsers, id); err != nil {
		return nil, err
	}
	savings, err := d.Money("totalSavings")
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	target, err := d.Money("monthlyTarget")
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}

	role := domain.Role(normalizeStatus(d.Str("role"), string(domain.RoleMember)))
	if !role.Valid() {
		return nil, fmt.Errorf("user %s: role %q: %w", id, role, domain.ErrInvalidRole)
	}

	created, _ := d.Time("createdAt")
	m := &models.Member{
		ID:            id,
		Name:          d.Str("name"),
		Phone:         phoneFrom(d),
		PasswordHash:  passwordHash,
		Role:          string(role),
		TotalSavings:  savings.Round(2),
		MonthlyTarget: target.Round(2),
		RegNo:         d.Str("regNo"),
		FatherName:    d.Str("fatherName"),
		NID:           d.Str("nid"),
		Status:        normalizeStatus(d.Str("status"), domain.MemberActive),
		LastDepositAt: timePtr(d.Time("lastDepositAt")),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	if m.Phone == "" {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrInvalidPhone)
	}
	return m, nil
}

// JoinRequest converts a memberRequests document. The plaintext password it
// carries is hashed on the way in.
func JoinRequest(id string, d Doc, hash Hasher) (*models.JoinRequest, error) {
	if err := requireDocID(CollectionMemberRequests, id); err != nil {
		return nil, err
	}
	target, err := d.Money("monthlyTarget")
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", id, err)
	}

	passwordHash := ""
	if plain := d.Str("password"); plain != "" {
		if passwordHash, err = hash(plain); err != nil {
			return nil, fmt.Errorf("request %s: %w", id, err)
		}
	}

	created, _ := d.Time("createdAt", "timestamp")
	return &models.JoinRequest{
		ID:            id,
		Name:          d.Str("name"),
		Phone:         phoneFrom(d),
		FatherName:    d.Str("fatherName"),
		NID:           d.Str("nid"),
		RegNo:         d.Str("regNo"),
		MonthlyTarget: target.Round(2),
		PasswordHash:  passwordHash,
		Status:        normalizeStatus(d.Str("status"), string(domain.StatusPending)),
		RejectReason:  d.Str("rejectReason"),
		CreatedAt:     created,
	}, nil
}

// Deposit converts a deposits document. The period may be stored as forMonth
// or month; whichever is present wins, in that order.
func Deposit(id string, d Doc) (*models.Deposit, error) {
	if err := requireDocID(CollectionDeposits, id); err != nil {
		return nil, err
	}
	amount, err := d.Money("amount")
	if err != nil {
		return nil, fmt.Errorf("deposit %s: %w", id, err)
	}
	created, _ := d.Time("timestamp", "createdAt")
	period, err := NormalizePeriod(d.Str("forMonth", "month"), created)
	if err != nil {
		return nil, fmt.Errorf("deposit %s: %w", id, err)
	}

	status := normalizeStatus(d.Str("status"), string(domain.StatusPending))
	dep := &models.Deposit{
		ID:           id,
		UserID:       d.Str("userId", "uid"),
		UserName:     d.Str("userName", "memberName"),
		RegNo:        d.Str("regNo"),
		Amount:       amount.Round(2),
		Method:       NormalizeMethod(d.Str("method")),
		TrxID:        strings.ToUpper(d.Str("trxId")),
		CollectedBy:  d.Str("collectedBy"),
		ForMonth:     period,
		Status:       status,
		CreatedAt:    created,
		RejectReason: d.Str("rejectReason"),
	}
	switch domain.RequestStatus(status) {
	case domain.StatusApproved:
		dep.ResolvedBy = d.Str("approvedBy", "collectedBy")
		dep.ResolvedAt = timePtr(d.Time("approvedAt"))
	case domain.StatusRejected:
		dep.ResolvedBy = d.Str("rejectedBy")
		dep.ResolvedAt = timePtr(d.Time("rejectedAt"))
	}
	if dep.UserID == "" {
		return nil, fmt.Errorf("deposit %s: no member: %w", id, domain.ErrInvalidArgument)
	}
	return dep, nil
}

// Loan converts a loans document
func Loan(id string, d Doc) (*models.Loan, error) {
	if err := requireDocID(CollectionLoans, id); err != nil {
		return nil, err
	}
	principal, err := d.Money("amount")
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", id, err)
	}
	rate, err := d.Money("interestRate")
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", id, err)
	}
	total, err := d.Money("totalPayable")
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", id, err)
	}
	emi, err := d.Money("monthlyInstallment")
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", id, err)
	}
	remaining, err := d.Money("remainingBalance")
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", id, err)
	}

	duration := d.Int("duration")
	// very old loans were saved before the terms were stored
	if total.IsZero() && duration > 0 {
		if terms, err := domain.ComputeLoanTerms(principal, rate, duration); err == nil {
			total, emi = terms.TotalPayable, terms.MonthlyInstallment
		}
	}
	if remaining.IsNegative() {
		return nil, fmt.Errorf("loan %s: negative balance: %w", id, domain.ErrInvalidAmount)
	}

	created, _ := d.Time("createdAt")
	return &models.Loan{
		ID:                 id,
		UserID:             d.Str("userId"),
		MemberName:         d.Str("memberName"),
		MemberPhone:        d.Str("memberPhone"),
		Amount:             principal.Round(2),
		InterestRate:       rate,
		Duration:           duration,
		TotalPayable:       total.Round(2),
		MonthlyInstallment: emi,
		RemainingBalance:   remaining.Round(2),
		Status:             normalizeStatus(d.Str("status"), domain.LoanStatusApproved),
		IssuedBy:           d.Str("issuedBy"),
		LastPaymentDate:    timePtr(d.Time("lastPaymentDate")),
		CreatedAt:          created,
		UpdatedAt:          created,
	}, nil
}

// Repayment converts a repayments document; the amount lives in paidAmount,
// with amount accepted as a fallback.
func Repayment(id string, d Doc) (*models.Repayment, error) {
	if err := requireDocID(CollectionRepayments, id); err != nil {
		return nil, err
	}
	paid, err := d.Money("paidAmount", "amount")
	if err != nil {
		return nil, fmt.Errorf("repayment %s: %w", id, err)
	}
	date, _ := d.Time("date", "timestamp")
	return &models.Repayment{
		ID:          id,
		LoanID:      d.Str("loanId"),
		UserID:      d.Str("userId"),
		MemberName:  d.Str("memberName"),
		PaidAmount:  paid.Round(2),
		CollectedBy: d.Str("collectedBy"),
		Date:        date,
	}, nil
}

// Transaction converts a transactions document; the amount lives in amount,
// with paidAmount accepted as a fallback.
func Transaction(id string, d Doc) (*models.LedgerTransaction, error) {
	if err := requireDocID(CollectionTransactions, id); err != nil {
		return nil, err
	}
	amount, err := d.Money("amount", "paidAmount")
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", id, err)
	}
	at, _ := d.Time("timestamp", "date")
	txType := d.Str("type")
	if txType == "" {
		txType = domain.LedgerTxTypeLoanRepayment
	}
	return &models.LedgerTransaction{
		ID:          id,
		LoanID:      d.Str("loanId"),
		MemberID:    d.Str("memberId", "userId"),
		MemberName:  d.Str("memberName"),
		Amount:      amount.Round(2),
		Type:        txType,
		CollectedBy: d.Str("collectedBy"),
		Timestamp:   at,
	}, nil
}

// AuditLog converts a logs document
func AuditLog(id string, d Doc) (*models.AuditLog, error) {
	if err := requireDocID(CollectionLogs, id); err != nil {
		return nil, err
	}
	at, _ := d.Time("timestamp", "createdAt")
	return &models.AuditLog{
		ID:        id,
		AdminName: d.Str("adminName"),
		Action:    d.Str("action"),
		Details:   d.Str("details"),
		Type:      normalizeCategory(d.Str("type")),
		RefID:     d.Str("loanId", "refId"),
		Timestamp: at,
	}, nil
}

// Notification converts a notifications document
func Notification(id string, d Doc) (*models.Notification, error) {
	if err := requireDocID(CollectionNotifications, id); err != nil {
		return nil, err
	}
	at, _ := d.Time("createdAt", "timestamp")
	return &models.Notification{
		ID:        id,
		Recipient: d.Str("recipient"),
		Title:     d.Str("title"),
		Body:      d.Str("body", "message"),
		Read:      d.Bool("read"),
		Type:      normalizeCategory(d.Str("type")),
		CreatedAt: at,
	}, nil
}

// Notice converts a notices document
func Notice(id string, d Doc) (*models.Notice, error) {
	if err := requireDocID(CollectionNotices, id); err != nil {
		return nil, err
	}
	at, _ := d.Time("createdAt", "timestamp")
	return &models.Notice{
		ID:        id,
		Title:     d.Str("title"),
		Message:   d.Str("message", "body"),
		Author:    d.Str("author", "adminName"),
		CreatedAt: at,
	}, nil
}

// Setting converts a settings document. Only pay_settings and
// collection_config are known; other keys are rejected.
func Setting(id string, d Doc) (*models.Setting, error) {
	var value map[string]string
	switch id {
	case models.SettingPay:
		value = map[string]string{"bkash": d.Str("bkash"), "nagad": d.Str("nagad")}
	case models.SettingCollection:
		value = map[string]string{"startDate": d.Str("startDate"), "endDate": d.Str("endDate")}
	default:
		return nil, fmt.Errorf("setting %q: %w", id, domain.ErrSettingNotFound)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &models.Setting{Key: id, Value: string(raw)}, nil
}
