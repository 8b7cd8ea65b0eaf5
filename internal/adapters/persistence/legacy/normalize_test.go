package legacy

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/core/domain"
)

func decode(t *testing.T, raw string) Export {
	t.Helper()
	exp, err := Decode(strings.NewReader(raw))
	require.NoError(t, err)
	return exp
}

func TestNormalizePeriod(t *testing.T) {
	at := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		label string
		at    time.Time
		want  string
	}{
		{"full label", "March 2025", at, "March 2025"},
		{"bare month takes year of timestamp", "March", at, "March 2024"},
		{"lower case", "march", at, "March 2024"},
		{"short month", "Mar 2025", at, "March 2025"},
		{"numeric", "2025-03", at, "March 2025"},
		{"slash", "03/2025", at, "March 2025"},
		{"empty uses timestamp", "", at, "November 2024"},
		{"empty without timestamp", "", time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePeriod(tt.label, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizePeriod("Ramadan", at)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, domain.MethodBkash, NormalizeMethod("Bkash"))
	assert.Equal(t, domain.MethodCash, NormalizeMethod(""))
	assert.Equal(t, domain.MethodCashByStaff, NormalizeMethod("Cash (Admin)"))
	assert.Equal(t, "upay", NormalizeMethod(" Upay "))
}

func TestDeposit_PeriodSpellings(t *testing.T) {
	exp := decode(t, `{"deposits": {
		"a": {"userId": "u1", "amount": 500, "forMonth": "March", "month": "April 2025",
		      "method": "Bkash", "trxId": " 8fk2 ", "status": "approved", "approvedBy": "Karim",
		      "timestamp": {"_seconds": 1741000000, "_nanoseconds": 0},
		      "approvedAt": {"seconds": 1741100000, "nanoseconds": 0}},
		"b": {"userId": "u1", "amount": "250.50", "month": "February 2025", "status": "rejected",
		      "rejectedBy": "Rahim", "rejectReason": "wrong trx"}
	}}`)

	a, err := Deposit("a", exp[CollectionDeposits]["a"])
	require.NoError(t, err)
	assert.Equal(t, "March 2025", a.ForMonth, "forMonth wins over month")
	assert.True(t, a.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "bkash", a.Method)
	assert.Equal(t, "8FK2", a.TrxID)
	assert.Equal(t, "Karim", a.ResolvedBy)
	require.NotNil(t, a.ResolvedAt)
	assert.Equal(t, int64(1741100000), a.ResolvedAt.Unix())
	assert.Equal(t, int64(1741000000), a.CreatedAt.Unix())

	b, err := Deposit("b", exp[CollectionDeposits]["b"])
	require.NoError(t, err)
	assert.Equal(t, "February 2025", b.ForMonth)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, "Rahim", b.ResolvedBy)
	assert.Equal(t, "wrong trx", b.RejectReason)
	assert.Equal(t, domain.MethodCash, b.Method)
}

func TestDeposit_Invalid(t *testing.T) {
	_, err := Deposit("x", Doc{"amount": 10.0})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = Deposit("y", Doc{"userId": "u1", "amount": "ten"})
	assert.Error(t, err)

	_, err = Deposit("", Doc{"userId": "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRepaymentAndTransaction_AmountSpellings(t *testing.T) {
	rep, err := Repayment("r1", Doc{"loanId": "l1", "paidAmount": 1000.0, "date": "2025-03-10T08:00:00Z"})
	require.NoError(t, err)
	assert.True(t, rep.PaidAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 10, rep.Date.Day())

	rep, err = Repayment("r2", Doc{"loanId": "l1", "amount": "300"})
	require.NoError(t, err)
	assert.True(t, rep.PaidAmount.Equal(decimal.NewFromInt(300)))

	trx, err := Transaction("t1", Doc{"loanId": "l1", "paidAmount": 200.0})
	require.NoError(t, err)
	assert.True(t, trx.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.LedgerTxTypeLoanRepayment, trx.Type)
}

func TestLoan_RecomputesMissingTerms(t *testing.T) {
	loan, err := Loan("l1", Doc{"userId": "u1", "amount": 10000.0, "interestRate": 10.0, "duration": 12.0, "remainingBalance": 11000.0})
	require.NoError(t, err)
	assert.True(t, loan.TotalPayable.Equal(decimal.NewFromInt(11000)))
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)
	assert.Equal(t, 12, loan.Duration)

	_, err = Loan("l2", Doc{"amount": 100.0, "remainingBalance": -1.0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestMember(t *testing.T) {
	m, err := Member("u1", Doc{"name": "Karim", "email": "01711223344@somity.com", "totalSavings": "1500", "role": "Admin"}, "hash")
	require.NoError(t, err)
	assert.Equal(t, "01711223344", m.Phone)
	assert.Equal(t, "admin", m.Role)
	assert.Equal(t, domain.MemberActive, m.Status)
	assert.True(t, m.TotalSavings.Equal(decimal.NewFromInt(1500)))

	_, err = Member("u2", Doc{"name": "NoPhone"}, "hash")
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	_, err = Member("u3", Doc{"name": "X", "phone": "01700000000", "role": "owner"}, "hash")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestJoinRequest_HashesPassword(t *testing.T) {
	r, err := JoinRequest("q1", Doc{"name": "A", "phone": "01700000000", "password": "secret1", "monthlyTarget": "500"},
		func(p string) (string, error) { return "hashed:" + p, nil })
	require.NoError(t, err)
	assert.Equal(t, "hashed:secret1", r.PasswordHash)
	assert.Equal(t, string(domain.StatusPending), r.Status)
}

func TestSetting(t *testing.T) {
	s, err := Setting("collection_config", Doc{"startDate": "05", "endDate": "15"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"05","endDate":"15"}`, s.Value)

	_, err = Setting("theme", Doc{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocTime_Formats(t *testing.T) {
	exp := decode(t, `{"x": {"d": {"ms": 1741000000000, "iso": "2025-03-03", "bad": "soon"}}}`)
	d := exp["x"]["d"]

	ms, ok := d.Time("ms")
	require.True(t, ok)
	assert.Equal(t, int64(1741000000), ms.Unix())

	iso, ok := d.Time("missing", "iso")
	require.True(t, ok)
	assert.Equal(t, 3, iso.Day())

	_, ok = d.Time("bad")
	assert.False(t, ok)
}
