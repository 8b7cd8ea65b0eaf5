package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// DefaultRejectReason is stored when a deposit is rejected without a reason
const DefaultRejectReason = "No reason provided"

// QueueSignaler is told whenever the set of pending requests may have changed
type QueueSignaler interface {
	Signal()
}

// LedgerService is the only writer of member savings and loan balances.
// Every operation runs as one unit on the LedgerStore and re-checks its
// preconditions against rows read inside that unit.
type LedgerService struct {
	store    repositories.LedgerStore
	notifier Notifier
	queue    QueueSignaler
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewLedgerService creates a new ledger service. notifier and queue may be nil.
func NewLedgerService(store repositories.LedgerStore, notifier Notifier, queue QueueSignaler, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
		queue:    queue,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// DirectDepositInput represents cash collected in person by staff
type DirectDepositInput struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	ForMonth string          `json:"for_month"`
}

// IssueLoanInput represents a new loan
type IssueLoanInput struct {
	MemberID       string          `json:"member_id"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
}

// RepaymentResult is the loan after a repayment plus the record written for it
type RepaymentResult struct {
	Loan      *models.Loan      `json:"loan"`
	Repayment *models.Repayment `json:"repayment"`
}

// ============================================================
// Deposits
// ============================================================

// ApproveDeposit credits a pending deposit to the member's savings
func (s *LedgerService) ApproveDeposit(ctx context.Context, depositID string, actor domain.Actor) (*models.Deposit, error) {
	var (
		approved *models.Deposit
		event    domain.Event
	)

	err := s.store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		deposit, err := tx.GetDepositForUpdate(depositID)
		if err != nil {
			return err
		}
		if deposit.Status != string(domain.StatusPending) {
			return domain.ErrDepositResolved
		}
		amount := deposit.Amount.Round(2)
		if !amount.IsPositive() {
			return domain.ErrInvalidAmount
		}

		member, err := tx.GetMemberForUpdate(deposit.UserID)
		if err != nil {
			return err
		}
		if !member.IsActive() {
			return domain.ErrAccountInactive
		}

		now := s.now()
		if err := tx.UpdateMemberSavings(member.ID, member.TotalSavings.Add(amount), now); err != nil {
			return err
		}

		deposit.Status = string(domain.StatusApproved)
		deposit.ResolvedAt = &now
		deposit.ResolvedBy = actor.DisplayName()
		deposit.ResolvedByID = actor.ID
		if err := tx.ResolveDeposit(deposit); err != nil {
			return err
		}

		n := s.notification(member.ID,
			"Deposit approved",
			fmt.Sprintf("Your deposit request of ৳%s has been approved.", amount.StringFixed(2)),
			domain.CategorySuccess, now)
		if err := tx.CreateNotification(n); err != nil {
			return err
		}
		if err := tx.CreateAuditLog(s.audit(actor, "Deposit approved",
			fmt.Sprintf("Approved ৳%s deposit of %s.", amount.StringFixed(2), member.Name),
			domain.CategorySuccess, deposit.ID, now)); err != nil {
			return err
		}

		approved = deposit
		event = eventFor(domain.EventDepositApproved, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("deposit_id", depositID).Str("actor", actor.ID).Msg("✅ deposit approved")
	s.afterCommit(event, true)
	return approved, nil
}

// RejectDeposit closes a pending deposit without touching any balance
func (s *LedgerService) RejectDeposit(ctx context.Context, depositID string, actor domain.Actor, reason string) (*models.Deposit, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultRejectReason
	}

	var (
		rejected *models.Deposit
		event    domain.Event
	)

	err := s.store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		deposit, err := tx.GetDepositForUpdate(depositID)
		if err != nil {
			return err
		}
		if deposit.Status != string(domain.StatusPending) {
			return domain.ErrDepositResolved
		}

		now := s.now()
		deposit.Status = string(domain.StatusRejected)
		deposit.ResolvedAt = &now
		deposit.ResolvedBy = actor.DisplayName()
		deposit.ResolvedByID = actor.ID
		deposit.RejectReason = reason
		if err := tx.ResolveDeposit(deposit); err != nil {
			return err
		}

		n := s.notification(deposit.UserID,
			"Deposit rejected",
			fmt.Sprintf("Your deposit request of ৳%s was rejected. Reason: %s", deposit.Amount.StringFixed(2), reason),
			domain.CategoryError, now)
		if err := tx.CreateNotification(n); err != nil {
			return err
		}
		if err := tx.CreateAuditLog(s.audit(actor, "Deposit rejected",
			fmt.Sprintf("Rejected ৳%s deposit of %s.", deposit.Amount.StringFixed(2), deposit.UserName),
			domain.CategoryDanger, deposit.ID, now)); err != nil {
			return err
		}

		rejected = deposit
		event = eventFor(domain.EventDepositRejected, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("deposit_id", depositID).Str("actor", actor.ID).Msg("❌ deposit rejected")
	s.afterCommit(event, true)
	return rejected, nil
}

// RecordDirectDeposit records cash handed to staff as an already approved deposit
func (s *LedgerService) RecordDirectDeposit(ctx context.Context, input DirectDepositInput, actor domain.Actor) (*models.Deposit, error) {
	amount, err := domain.NormalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	forMonth, err := resolvePeriod(input.ForMonth, s.now())
	if err != nil {
		return nil, err
	}

	var (
		created *models.Deposit
		event   domain.Event
	)

	err = s.store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		member, err := tx.GetMemberForUpdate(input.MemberID)
		if err != nil {
			return err
		}
		if !member.IsActive() {
			return domain.ErrAccountInactive
		}

		now := s.now()
		deposit := &models.Deposit{
			ID:           s.newID(),
			UserID:       member.ID,
			UserName:     member.Name,
			RegNo:        member.RegNo,
			Amount:       amount,
			Method:       domain.MethodCashByStaff,
			CollectedBy:  actor.DisplayName(),
			ForMonth:     forMonth,
			Status:       string(domain.StatusApproved),
			CreatedAt:    now,
			ResolvedAt:   &now,
			ResolvedBy:   actor.DisplayName(),
			ResolvedByID: actor.ID,
		}
		if err := tx.CreateDeposit(deposit); err != nil {
			return err
		}
		if err := tx.UpdateMemberSavings(member.ID, member.TotalSavings.Add(amount), now); err != nil {
			return err
		}

		n := s.notification(member.ID,
			"Deposit received",
			fmt.Sprintf("৳%s cash deposit for %s has been added to your savings.", amount.StringFixed(2), forMonth),
			domain.CategorySuccess, now)
		if err := tx.CreateNotification(n); err != nil {
			return err
		}
		if err := tx.CreateAuditLog(s.audit(actor, "Direct deposit",
			fmt.Sprintf("Collected ৳%s cash from %s for %s.", amount.StringFixed(2), member.Name, forMonth),
			domain.CategorySuccess, deposit.ID, now)); err != nil {
			return err
		}

		created = deposit
		event = eventFor(domain.EventDirectDeposit, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", input.MemberID).Str("amount", amount.StringFixed(2)).Msg("💰 direct deposit recorded")
	s.afterCommit(event, false)
	return created, nil
}

// ============================================================
// Loans
// ============================================================

// IssueLoan creates a loan whose remaining balance starts at the total payable
func (s *LedgerService) IssueLoan(ctx context.Context, input IssueLoanInput, actor domain.Actor) (*models.Loan, error) {
	principal, err := domain.NormalizeAmount(input.Principal)
	if err != nil {
		return nil, err
	}
	terms, err := domain.ComputeLoanTerms(principal, input.InterestRate, input.DurationMonths)
	if err != nil {
		return nil, err
	}
	total := terms.TotalPayable

	var issued *models.Loan
	err = s.store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		member, err := tx.GetMemberForUpdate(input.MemberID)
		if err != nil {
			return err
		}
		if !member.IsActive() {
			return domain.ErrAccountInactive
		}

		now := s.now()
		loan := &models.Loan{
			ID:                 s.newID(),
			UserID:             member.ID,
			MemberName:         member.Name,
			MemberPhone:        member.Phone,
			Amount:             principal,
			InterestRate:       terms.InterestRate,
			Duration:           terms.DurationMonths,
			TotalPayable:       total,
			MonthlyInstallment: terms.MonthlyInstallment,
			RemainingBalance:   total,
			Status:             domain.LoanStatusApproved,
			IssuedBy:           actor.DisplayName(),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.CreateLoan(loan); err != nil {
			return err
		}
		if err := tx.CreateAuditLog(s.audit(actor, "Loan issued",
			fmt.Sprintf("Issued ৳%s loan to %s at %s%% for %d months (total ৳%s).",
				principal.StringFixed(2), member.Name, terms.InterestRate.String(), terms.DurationMonths, total.StringFixed(2)),
			domain.CategoryLoan, loan.ID, now)); err != nil {
			return err
		}

		issued = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("loan_id", issued.ID).Str("member_id", input.MemberID).Msg("🏦 loan issued")
	return issued, nil
}

// RepayLoan posts a repayment. The amount may not exceed the balance read inside the unit.
func (s *LedgerService) RepayLoan(ctx context.Context, loanID string, amount decimal.Decimal, actor domain.Actor) (*RepaymentResult, error) {
	amount, err := domain.NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	var (
		result *RepaymentResult
		event  domain.Event
	)

	err = s.store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		loan, err := tx.GetLoanForUpdate(loanID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(loan.RemainingBalance) {
			return domain.ErrRepaymentExceedsBalance
		}

		now := s.now()
		remaining := loan.RemainingBalance.Sub(amount)
		if err := tx.UpdateLoanBalance(loan.ID, remaining, now); err != nil {
			return err
		}

		repayment := &models.Repayment{
			ID:          s.newID(),
			LoanID:      loan.ID,
			UserID:      loan.UserID,
			MemberName:  loan.MemberName,
			PaidAmount:  amount,
			CollectedBy: actor.DisplayName(),
			Date:        now,
		}
		if err := tx.CreateRepayment(repayment); err != nil {
			return err
		}
		if err := tx.CreateTransaction(&models.LedgerTransaction{
			ID:          s.newID(),
			LoanID:      loan.ID,
			MemberID:    loan.UserID,
			MemberName:  loan.MemberName,
			Amount:      amount,
			Type:        domain.LedgerTxTypeLoanRepayment,
			CollectedBy: actor.DisplayName(),
			Timestamp:   now,
		}); err != nil {
			return err
		}

		n := s.notification(loan.UserID,
			"Installment received",
			fmt.Sprintf("৳%s received for your loan. Remaining balance: ৳%s.", amount.StringFixed(2), remaining.StringFixed(2)),
			domain.CategorySuccess, now)
		if err := tx.CreateNotification(n); err != nil {
			return err
		}
		if err := tx.CreateAuditLog(s.audit(actor, "Loan repayment",
			fmt.Sprintf("Collected ৳%s from %s. Remaining ৳%s.", amount.StringFixed(2), loan.MemberName, remaining.StringFixed(2)),
			domain.CategoryLoan, loan.ID, now)); err != nil {
			return err
		}

		loan.RemainingBalance = remaining
		loan.LastPaymentDate = &now
		result = &RepaymentResult{Loan: loan, Repayment: repayment}
		event = eventFor(domain.EventLoanRepayment, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("loan_id", loanID).Str("amount", amount.StringFixed(2)).Msg("💵 repayment posted")
	s.afterCommit(event, false)
	return result, nil
}

// ============================================================
// helpers
// ============================================================

func (s *LedgerService) notification(recipient, title, body string, category domain.Category, at time.Time) *models.Notification {
	return &models.Notification{
		ID:        s.newID(),
		Recipient: recipient,
		Title:     title,
		Body:      body,
		Type:      string(category),
		CreatedAt: at,
	}
}

func (s *LedgerService) audit(actor domain.Actor, action, details string, category domain.Category, refID string, at time.Time) *models.AuditLog {
	return &models.AuditLog{
		ID:        s.newID(),
		ActorID:   actor.ID,
		AdminName: actor.DisplayName(),
		Action:    action,
		Details:   details,
		Type:      string(category),
		RefID:     refID,
		Timestamp: at,
	}
}

// afterCommit runs only once the unit is durable. Nothing here can fail the operation.
func (s *LedgerService) afterCommit(event domain.Event, queueChanged bool) {
	if s.notifier != nil {
		s.notifier.Dispatch(event)
	}
	if queueChanged && s.queue != nil {
		s.queue.Signal()
	}
}

func eventFor(kind domain.EventKind, n *models.Notification) domain.Event {
	return domain.Event{
		Kind:        kind,
		RecipientID: n.Recipient,
		Title:       n.Title,
		Body:        n.Body,
		Category:    domain.Category(n.Type),
		OccurredAt:  n.CreatedAt,
	}
}

// resolvePeriod validates a "March 2025" label, defaulting to the current month
func resolvePeriod(label string, now time.Time) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.PeriodLabel(now), nil
	}
	t, err := time.Parse(domain.PeriodLayout, label)
	if err != nil {
		return "", domain.ErrInvalidPeriod
	}
	return domain.PeriodLabel(t), nil
}
