package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/pagination"
	"somity-ledger/internal/pkg/password"
)

// ErrOldPasswordWrong is returned when a password change does not prove the current password
var ErrOldPasswordWrong = fmt.Errorf("old password is incorrect: %w", domain.ErrUnauthorized)

// MemberService handles member and staff accounts. It never writes balances.
type MemberService struct {
	ledger   repositories.LedgerStore
	members  repositories.MemberRepository
	deposits repositories.DepositRepository
	loans    repositories.LoanRepository
	audit    repositories.AuditLogRepository
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
	hash     func(string) (string, error)
}

// NewMemberService creates a new member service
func NewMemberService(store *repositories.Store, log zerolog.Logger) *MemberService {
	return &MemberService{
		ledger:   store.Ledger,
		members:  store.Members,
		deposits: store.Deposits,
		loans:    store.Loans,
		audit:    store.AuditLogs,
		log:      log.With().Str("component", "members").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
		hash:     password.Hash,
	}
}

// RegisterMemberInput is a member added directly by staff
type RegisterMemberInput struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Password      string          `json:"password"`
	FatherName    string          `json:"father_name"`
	NID           string          `json:"nid"`
	RegNo         string          `json:"reg_no"`
	MonthlyTarget decimal.Decimal `json:"monthly_target"`
}

// AddStaffInput is a new cashier or admin account
type AddStaffInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListMembersInput represents list members input
type ListMembersInput struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Status string
}

// UpdateProfileInput carries contact fields; nil leaves a field unchanged
type UpdateProfileInput struct {
	Name       *string `json:"name"`
	FatherName *string `json:"father_name"`
	NID        *string `json:"nid"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// MemberDetail is a member with their deposit and loan history
type MemberDetail struct {
	Member   *models.Member    `json:"member"`
	Deposits []*models.Deposit `json:"deposits"`
	Loans    []*models.Loan    `json:"loans"`
}

// RegisterMember creates an active member without a join request
func (s *MemberService) RegisterMember(ctx context.Context, input RegisterMemberInput, actor domain.Actor) (*models.Member, error) {
	if input.MonthlyTarget.IsNegative() {
		return nil, domain.ErrInvalidTarget
	}
	regNo := strings.TrimSpace(input.RegNo)
	if regNo == "" {
		regNo = defaultRegNo(s.now())
	}

	member, err := s.newAccount(input.Name, input.Phone, input.Password, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	member.FatherName = strings.TrimSpace(input.FatherName)
	member.NID = strings.TrimSpace(input.NID)
	member.RegNo = regNo
	member.MonthlyTarget = input.MonthlyTarget.Round(2)

	details := fmt.Sprintf("%s (%s) added as a member.", member.Name, member.Phone)
	if err := s.createWithAudit(ctx, member, actor, "Member added", details, domain.CategorySuccess); err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", member.ID).Str("actor", actor.ID).Msg("👤 member registered")
	return member, nil
}

// AddStaff creates a cashier or admin account
func (s *MemberService) AddStaff(ctx context.Context, input AddStaffInput, actor domain.Actor) (*models.Member, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(input.Role)))
	if !role.IsStaff() {
		return nil, domain.ErrInvalidRole
	}

	staff, err := s.newAccount(input.Name, input.Phone, input.Password, role)
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("%s (%s) appointed as %s.", staff.Name, staff.Phone, role)
	if err := s.createWithAudit(ctx, staff, actor, "Staff appointed", details, domain.CategorySecurity); err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", staff.ID).Str("role", string(role)).Str("actor", actor.ID).Msg("🛡️ staff added")
	return staff, nil
}

// ListMembers lists accounts with search and pagination
func (s *MemberService) ListMembers(ctx context.Context, input ListMembersInput) (*pagination.Response, error) {
	params := pagination.NewParams(input.Page, input.Limit)
	items, total, err := s.members.List(ctx, repositories.MemberFilter{
		Search: strings.TrimSpace(input.Search),
		Role:   input.Role,
		Status: input.Status,
	}, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Member{}
	}
	return pagination.NewResponse(items, params, total), nil
}

// ListStaff returns every cashier and admin
func (s *MemberService) ListStaff(ctx context.Context) ([]*models.Member, error) {
	var staff []*models.Member
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleCashier} {
		items, _, err := s.members.List(ctx, repositories.MemberFilter{Role: string(role)}, 0, pagination.MaxLimit)
		if err != nil {
			return nil, err
		}
		staff = append(staff, items...)
	}
	return staff, nil
}

// GetMember returns one account
func (s *MemberService) GetMember(ctx context.Context, id string) (*models.Member, error) {
	return s.members.GetByID(ctx, id)
}

// GetMemberDetail returns a member with deposits and loans
func (s *MemberService) GetMemberDetail(ctx context.Context, id string) (*MemberDetail, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposits == nil {
		deposits = []*models.Deposit{}
	}
	if loans == nil {
		loans = []*models.Loan{}
	}
	return &MemberDetail{Member: member, Deposits: deposits, Loans: loans}, nil
}

// UpdateMonthlyTarget changes a member's savings goal
func (s *MemberService) UpdateMonthlyTarget(ctx context.Context, id string, target decimal.Decimal, actor domain.Actor) (*models.Member, error) {
	if target.IsNegative() {
		return nil, domain.ErrInvalidTarget
	}
	target = target.Round(2)

	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.members.UpdateProfile(ctx, id, repositories.ProfileUpdate{MonthlyTarget: &target}); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actor, "Target updated",
		fmt.Sprintf("Monthly target of %s changed from ৳%s to ৳%s.", member.Name, member.MonthlyTarget.StringFixed(2), target.StringFixed(2)),
		domain.CategoryInfo, id)

	member.MonthlyTarget = target
	return member, nil
}

// UpdateProfile changes contact fields
func (s *MemberService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.Member, error) {
	update := repositories.ProfileUpdate{
		FatherName: trimmed(input.FatherName),
		NID:        trimmed(input.NID),
	}
	if name := trimmed(input.Name); name != nil {
		if *name == "" {
			return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidArgument)
		}
		update.Name = name
	}

	if err := s.members.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.members.GetByID(ctx, id)
}

// SetStatus activates or deactivates an account
func (s *MemberService) SetStatus(ctx context.Context, id, status string, actor domain.Actor) (*models.Member, error) {
	if status != domain.MemberActive && status != domain.MemberInactive {
		return nil, fmt.Errorf("status must be active or inactive: %w", domain.ErrInvalidArgument)
	}
	if id == actor.ID {
		return nil, fmt.Errorf("cannot change your own status: %w", domain.ErrForbidden)
	}

	if err := s.members.UpdateProfile(ctx, id, repositories.ProfileUpdate{Status: &status}); err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actor, "Account "+status,
		fmt.Sprintf("%s (%s) is now %s.", member.Name, member.Phone, status),
		domain.CategorySecurity, id)
	return member, nil
}

// ChangePassword replaces the caller's password after checking the old one
func (s *MemberService) ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(input.OldPassword, member.PasswordHash) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrInvalidPassword
	}

	hash, err := s.hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.members.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.log.Info().Str("member_id", id).Msg("🔑 password changed")
	return nil
}

func (s *MemberService) newAccount(name, phone, plain string, role domain.Role) (*models.Member, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidArgument)
	}
	if !phonePattern.MatchString(phone) {
		return nil, domain.ErrInvalidPhone
	}
	if !password.ValidatePassword(plain) {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := s.hash(plain)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &models.Member{
		ID:           s.newID(),
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		Role:         string(role),
		TotalSavings: decimal.Zero,
		Status:       domain.MemberActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// createWithAudit inserts the account and its audit entry as one unit
func (s *MemberService) createWithAudit(ctx context.Context, member *models.Member, actor domain.Actor, action, details string, category domain.Category) error {
	return s.ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		taken, err := tx.MemberPhoneExists(member.Phone)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrPhoneAlreadyExists
		}
		if err := tx.CreateMember(member); err != nil {
			return err
		}
		return tx.CreateAuditLog(&models.AuditLog{
			ID:        s.newID(),
			ActorID:   actor.ID,
			AdminName: actor.DisplayName(),
			Action:    action,
			Details:   details,
			Type:      string(category),
			RefID:     member.ID,
			Timestamp: member.CreatedAt,
		})
	})
}

// writeAudit records a non-ledger change. A failed write is logged, not returned.
func (s *MemberService) writeAudit(ctx context.Context, actor domain.Actor, action, details string, category domain.Category, refID string) {
	err := s.audit.Create(ctx, &models.AuditLog{
		ID:        s.newID(),
		ActorID:   actor.ID,
		AdminName: actor.DisplayName(),
		Action:    action,
		Details:   details,
		Type:      string(category),
		RefID:     refID,
		Timestamp: s.now(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error().Err(err).Str("action", action).Msg("❌ audit write failed")
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
