package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/password"
)

func newMemberFixture(t *testing.T) (*MemberService, *repositories.Store) {
	t.Helper()
	_, repos := newTestStore(t)
	svc := NewMemberService(repos, nopLogger)
	svc.now = func() time.Time { return testNow }
	svc.hash = fastHash
	return svc, repos
}

func TestRegisterMember(t *testing.T) {
	svc, repos := newMemberFixture(t)
	ctx := context.Background()

	m, err := svc.RegisterMember(ctx, RegisterMemberInput{
		Name:          " Salma ",
		Phone:         "01811112222",
		Password:      "secret1",
		MonthlyTarget: dec("1000"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Salma", m.Name)
	assert.Equal(t, string(domain.RoleMember), m.Role)
	assert.Regexp(t, `^M-\d{4}$`, m.RegNo)
	assert.True(t, m.TotalSavings.IsZero())
	assert.True(t, password.Verify("secret1", m.PasswordHash))

	logs, _ := repos.AuditLogs.ListRecent(ctx, string(domain.CategorySuccess), 10)
	require.Len(t, logs, 1)
	assert.Equal(t, m.ID, logs[0].RefID)
	assert.Equal(t, "Karim", logs[0].AdminName)

	_, err = svc.RegisterMember(ctx, RegisterMemberInput{Name: "Dup", Phone: "01811112222", Password: "secret1"}, admin)
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists)
}

func TestRegisterMember_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterMemberInput
		wantErr error
	}{
		{"no name", RegisterMemberInput{Phone: "01811112222", Password: "secret1"}, domain.ErrInvalidArgument},
		{"short phone", RegisterMemberInput{Name: "A", Phone: "0181111", Password: "secret1"}, domain.ErrInvalidPhone},
		{"short password", RegisterMemberInput{Name: "A", Phone: "01811112222", Password: "123"}, domain.ErrInvalidPassword},
		{"negative target", RegisterMemberInput{Name: "A", Phone: "01811112222", Password: "secret1", MonthlyTarget: dec("-5")}, domain.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := newMemberFixture(t)
			_, err := svc.RegisterMember(context.Background(), tt.input, admin)
			assert.ErrorIs(t, err, tt.wantErr)

			total, _ := repos.Members.Count(context.Background(), "")
			assert.Zero(t, total)
		})
	}
}

func TestAddStaff(t *testing.T) {
	svc, repos := newMemberFixture(t)
	ctx := context.Background()

	staff, err := svc.AddStaff(ctx, AddStaffInput{Name: "Rahim", Phone: "01911112222", Password: "secret1", Role: "Cashier"}, admin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCashier), staff.Role)

	logs, _ := repos.AuditLogs.ListRecent(ctx, string(domain.CategorySecurity), 10)
	assert.Len(t, logs, 1)

	_, err = svc.AddStaff(ctx, AddStaffInput{Name: "X", Phone: "01911113333", Password: "secret1", Role: "member"}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	list, err := svc.ListStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListMembers_Paginates(t *testing.T) {
	svc, repos := newMemberFixture(t)
	for _, id := range []string{"a", "b", "c"} {
		seedMember(t, repos, id, "0")
	}

	resp, err := svc.ListMembers(context.Background(), ListMembersInput{Page: 2, Limit: 2, Role: "member"})
	require.NoError(t, err)
	items, ok := resp.Data.([]*models.Member)
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(3), resp.Meta.Total)
}

func TestGetMemberDetail(t *testing.T) {
	svc, repos := newMemberFixture(t)
	seedMember(t, repos, "m1", "0")
	seedPendingDeposit(t, repos, "d1", "m1", "100")

	detail, err := svc.GetMemberDetail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Len(t, detail.Deposits, 1)
	assert.NotNil(t, detail.Loans)

	_, err = svc.GetMemberDetail(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestUpdateMonthlyTarget_KeepsSavings(t *testing.T) {
	svc, repos := newMemberFixture(t)
	seedMember(t, repos, "m1", "750")

	m, err := svc.UpdateMonthlyTarget(context.Background(), "m1", dec("1200.456"), cashier)
	require.NoError(t, err)
	assert.True(t, m.MonthlyTarget.Equal(dec("1200.46")))
	assert.True(t, savingsOf(t, repos, "m1").Equal(dec("750")))

	_, err = svc.UpdateMonthlyTarget(context.Background(), "m1", dec("-1"), cashier)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestUpdateProfile(t *testing.T) {
	svc, repos := newMemberFixture(t)
	seedMember(t, repos, "m1", "0")

	nid := " 1990123 "
	m, err := svc.UpdateProfile(context.Background(), "m1", UpdateProfileInput{NID: &nid})
	require.NoError(t, err)
	assert.Equal(t, "1990123", m.NID)
	assert.Equal(t, "Member m1", m.Name)

	empty := "  "
	_, err = svc.UpdateProfile(context.Background(), "m1", UpdateProfileInput{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSetStatus(t *testing.T) {
	svc, repos := newMemberFixture(t)
	seedMember(t, repos, "m1", "0")
	ctx := context.Background()

	m, err := svc.SetStatus(ctx, "m1", domain.MemberInactive, admin)
	require.NoError(t, err)
	assert.False(t, m.IsActive())

	_, err = svc.SetStatus(ctx, admin.ID, domain.MemberInactive, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetStatus(ctx, "m1", "banned", admin)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestChangePassword(t *testing.T) {
	svc, repos := newMemberFixture(t)
	ctx := context.Background()
	m, err := svc.RegisterMember(ctx, RegisterMemberInput{Name: "A", Phone: "01811112222", Password: "secret1"}, admin)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, m.ID, ChangePasswordInput{OldPassword: "wrong1", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(ctx, m.ID, ChangePasswordInput{OldPassword: "secret1", NewPassword: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(ctx, m.ID, ChangePasswordInput{OldPassword: "secret1", NewPassword: "secret2"}))
	stored, _ := repos.Members.GetByID(ctx, m.ID)
	assert.True(t, password.Verify("secret2", stored.PasswordHash))
}
