package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/password"
)

var (
	phonePattern = regexp.MustCompile(`^\d{11}$`)
	regNoPattern = regexp.MustCompile(`^\d{6}$`)
)

// RequestQueueService holds member-submitted requests until staff resolve them.
// Deposit approval itself goes through LedgerService.
type RequestQueueService struct {
	ledger   repositories.LedgerStore
	deposits repositories.DepositRepository
	joins    repositories.JoinRequestRepository
	members  repositories.MemberRepository
	hub      *QueueHub
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
	hash     func(string) (string, error)
}

// NewRequestQueueService creates a new request queue service
func NewRequestQueueService(store *repositories.Store, hub *QueueHub, log zerolog.Logger) *RequestQueueService {
	return &RequestQueueService{
		ledger:   store.Ledger,
		deposits: store.Deposits,
		joins:    store.JoinRequests,
		members:  store.Members,
		hub:      hub,
		log:      log.With().Str("component", "request_queue").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
		hash:     password.Hash,
	}
}

// ============================================================
// Deposit requests
// ============================================================

// SubmitDepositInput is a member's claim that money was sent
type SubmitDepositInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method"`
	TrxID    string          `json:"trx_id"`
	ForMonth string          `json:"for_month"`
}

// SubmitDeposit queues a pending deposit for staff review
func (s *RequestQueueService) SubmitDeposit(ctx context.Context, member domain.Actor, input SubmitDepositInput) (*models.Deposit, error) {
	amount, err := domain.NormalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(input.Method))
	if method != domain.MethodCash && !domain.IsElectronicMethod(method) {
		return nil, domain.ErrInvalidMethod
	}

	trxID := strings.ToUpper(strings.TrimSpace(input.TrxID))
	if domain.IsElectronicMethod(method) && trxID == "" {
		return nil, domain.ErrTrxIDRequired
	}

	forMonth, err := resolvePeriod(input.ForMonth, s.now())
	if err != nil {
		return nil, err
	}

	if trxID != "" {
		used, err := s.deposits.ExistsActiveTrxID(ctx, trxID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, domain.ErrDuplicateTrxID
		}
	}

	profile, err := s.members.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	deposit := &models.Deposit{
		ID:        s.newID(),
		UserID:    profile.ID,
		UserName:  profile.Name,
		RegNo:     profile.RegNo,
		Amount:    amount,
		Method:    method,
		TrxID:     trxID,
		ForMonth:  forMonth,
		Status:    string(domain.StatusPending),
		CreatedAt: s.now(),
	}
	if err := s.deposits.Create(ctx, deposit); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("deposit_id", deposit.ID).
		Str("member_id", profile.ID).
		Str("amount", amount.StringFixed(2)).
		Str("method", method).
		Msg("📥 deposit request submitted")
	s.signal()
	return deposit, nil
}

// ListPendingDeposits returns pending deposits, oldest first
func (s *RequestQueueService) ListPendingDeposits(ctx context.Context) ([]*models.Deposit, error) {
	return s.deposits.ListByStatus(ctx, string(domain.StatusPending))
}

// ListMemberDeposits returns one member's deposit history, newest first
func (s *RequestQueueService) ListMemberDeposits(ctx context.Context, memberID string) ([]*models.Deposit, error) {
	return s.deposits.ListByUser(ctx, memberID)
}

// ============================================================
// Join requests
// ============================================================

// JoinRequestInput is a self-registration form
type JoinRequestInput struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Password      string          `json:"password"`
	FatherName    string          `json:"father_name"`
	NID           string          `json:"nid"`
	RegNo         string          `json:"reg_no"`
	MonthlyTarget decimal.Decimal `json:"monthly_target"`
}

// SubmitJoinRequest queues a membership application
func (s *RequestQueueService) SubmitJoinRequest(ctx context.Context, input JoinRequestInput) (*models.JoinRequest, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	regNo := strings.TrimSpace(input.RegNo)

	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidArgument)
	}
	if !phonePattern.MatchString(phone) {
		return nil, domain.ErrInvalidPhone
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrInvalidPassword
	}
	if !regNoPattern.MatchString(regNo) {
		return nil, domain.ErrInvalidRegNo
	}
	if input.MonthlyTarget.IsNegative() {
		return nil, domain.ErrInvalidTarget
	}

	exists, err := s.members.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrPhoneAlreadyExists
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	req := &models.JoinRequest{
		ID:            s.newID(),
		Name:          name,
		Phone:         phone,
		FatherName:    strings.TrimSpace(input.FatherName),
		NID:           strings.TrimSpace(input.NID),
		RegNo:         regNo,
		MonthlyTarget: input.MonthlyTarget.Round(2),
		PasswordHash:  hash,
		Status:        string(domain.StatusPending),
		CreatedAt:     s.now(),
	}
	if err := s.joins.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", req.ID).Str("phone", phone).Msg("📝 join request submitted")
	s.signal()
	return req, nil
}

// ListPendingJoinRequests returns pending applications, oldest first
func (s *RequestQueueService) ListPendingJoinRequests(ctx context.Context) ([]*models.JoinRequest, error) {
	return s.joins.ListByStatus(ctx, string(domain.StatusPending))
}

// ApproveJoinRequest turns a pending application into an active member
func (s *RequestQueueService) ApproveJoinRequest(ctx context.Context, requestID string, actor domain.Actor) (*models.Member, error) {
	var created *models.Member

	err := s.ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		req, err := tx.GetJoinRequestForUpdate(requestID)
		if err != nil {
			return err
		}
		if req.Status != string(domain.StatusPending) {
			return domain.ErrJoinRequestResolved
		}
		taken, err := tx.MemberPhoneExists(req.Phone)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrPhoneAlreadyExists
		}

		now := s.now()
		regNo := req.RegNo
		if regNo == "" {
			regNo = defaultRegNo(now)
		}
		member := &models.Member{
			ID:            s.newID(),
			Name:          req.Name,
			Phone:         req.Phone,
			PasswordHash:  req.PasswordHash,
			Role:          string(domain.RoleMember),
			TotalSavings:  decimal.Zero,
			MonthlyTarget: req.MonthlyTarget,
			RegNo:         regNo,
			FatherName:    req.FatherName,
			NID:           req.NID,
			Status:        domain.MemberActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateMember(member); err != nil {
			return err
		}

		req.Status = string(domain.StatusApproved)
		req.ResolvedAt = &now
		req.ResolvedBy = actor.DisplayName()
		if err := tx.ResolveJoinRequest(req); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&models.AuditLog{
			ID:        s.newID(),
			ActorID:   actor.ID,
			AdminName: actor.DisplayName(),
			Action:    "Join request approved",
			Details:   fmt.Sprintf("%s (%s) is now a member. Monthly target: ৳%s", member.Name, member.Phone, member.MonthlyTarget.StringFixed(2)),
			Type:      string(domain.CategorySuccess),
			RefID:     member.ID,
			Timestamp: now,
		}); err != nil {
			return err
		}

		created = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", requestID).Str("member_id", created.ID).Msg("✅ join request approved")
	s.signal()
	return created, nil
}

// RejectJoinRequest closes a pending application
func (s *RequestQueueService) RejectJoinRequest(ctx context.Context, requestID string, actor domain.Actor, reason string) (*models.JoinRequest, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultRejectReason
	}

	var rejected *models.JoinRequest
	err := s.ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		req, err := tx.GetJoinRequestForUpdate(requestID)
		if err != nil {
			return err
		}
		if req.Status != string(domain.StatusPending) {
			return domain.ErrJoinRequestResolved
		}

		now := s.now()
		req.Status = string(domain.StatusRejected)
		req.ResolvedAt = &now
		req.ResolvedBy = actor.DisplayName()
		req.RejectReason = reason
		if err := tx.ResolveJoinRequest(req); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&models.AuditLog{
			ID:        s.newID(),
			ActorID:   actor.ID,
			AdminName: actor.DisplayName(),
			Action:    "Join request rejected",
			Details:   fmt.Sprintf("%s (%s) was not accepted. Reason: %s", req.Name, req.Phone, reason),
			Type:      string(domain.CategoryDanger),
			RefID:     req.ID,
			Timestamp: now,
		}); err != nil {
			return err
		}

		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", requestID).Msg("❌ join request rejected")
	s.signal()
	return rejected, nil
}

// Watch streams queue snapshots until ctx ends
func (s *RequestQueueService) Watch(ctx context.Context) (<-chan QueueSnapshot, error) {
	return s.hub.Subscribe(ctx)
}

func (s *RequestQueueService) signal() {
	if s.hub != nil {
		s.hub.Signal()
	}
}

// defaultRegNo derives a short "M-1234" number for members who came without one
func defaultRegNo(now time.Time) string {
	return fmt.Sprintf("M-%04d", now.UnixMilli()%10000)
}
