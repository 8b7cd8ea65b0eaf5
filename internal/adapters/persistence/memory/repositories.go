package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// ---------- members ----------

type memberRepo struct{ s *Store }

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insertMember(r.s.data, member, r.s.now())
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.data.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (r *memberRepo) GetByPhone(ctx context.Context, phone string) (*models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.data.members {
		if m.Phone == phone {
			return &m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *memberRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return phoneTaken(r.s.data, phone), nil
}

func (r *memberRepo) List(ctx context.Context, filter repositories.MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var result []*models.Member
	for _, m := range r.s.data.members {
		if filter.Role != "" && m.Role != filter.Role {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(m.Phone, search) &&
			!strings.Contains(strings.ToLower(m.RegNo), search) {
			continue
		}
		result = append(result, &m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})

	total := int64(len(result))
	return window(result, offset, limit), total, nil
}

func (r *memberRepo) ListActive(ctx context.Context) ([]*models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.Member
	for _, m := range r.s.data.members {
		if m.Role == string(domain.RoleMember) && m.Status == domain.MemberActive {
			result = append(result, &m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memberRepo) UpdateProfile(ctx context.Context, id string, update repositories.ProfileUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.data.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	if update.Name != nil {
		m.Name = *update.Name
	}
	if update.FatherName != nil {
		m.FatherName = *update.FatherName
	}
	if update.NID != nil {
		m.NID = *update.NID
	}
	if update.RegNo != nil {
		m.RegNo = *update.RegNo
	}
	if update.MonthlyTarget != nil {
		m.MonthlyTarget = *update.MonthlyTarget
	}
	if update.Status != nil {
		m.Status = *update.Status
	}
	m.UpdatedAt = r.s.now()
	r.s.data.members[id] = m
	return nil
}

func (r *memberRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.data.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.PasswordHash = passwordHash
	r.s.data.members[id] = m
	return nil
}

func (r *memberRepo) Count(ctx context.Context, role string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, m := range r.s.data.members {
		if role == "" || m.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *memberRepo) SumSavings(ctx context.Context) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, m := range r.s.data.members {
		sum = sum.Add(m.TotalSavings)
	}
	return sum, nil
}

// ---------- deposits ----------

type depositRepo struct{ s *Store }

func (r *depositRepo) Create(ctx context.Context, deposit *models.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insertDeposit(r.s.data, deposit, r.s.now())
}

func (r *depositRepo) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.data.deposits[id]
	if !ok {
		return nil, domain.ErrDepositNotFound
	}
	return &d, nil
}

func (r *depositRepo) ListByStatus(ctx context.Context, status string) ([]*models.Deposit, error) {
	return r.filter(func(d models.Deposit) bool { return d.Status == status }, true), nil
}

func (r *depositRepo) ListByUser(ctx context.Context, userID string) ([]*models.Deposit, error) {
	return r.filter(func(d models.Deposit) bool { return d.UserID == userID }, false), nil
}

func (r *depositRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Deposit, error) {
	return r.filter(func(d models.Deposit) bool {
		return !d.CreatedAt.Before(from) && !d.CreatedAt.After(to)
	}, true), nil
}

func (r *depositRepo) ExistsActiveTrxID(ctx context.Context, trxID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.data.deposits {
		if d.TrxID == trxID && d.Status != string(domain.StatusRejected) {
			return true, nil
		}
	}
	return false, nil
}

func (r *depositRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	items := r.filter(func(d models.Deposit) bool { return d.Status == status }, true)
	return int64(len(items)), nil
}

func (r *depositRepo) filter(keep func(models.Deposit) bool, ascending bool) []*models.Deposit {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.Deposit
	for _, d := range r.s.data.deposits {
		if keep(d) {
			result = append(result, &d)
		}
	}
	sortByTime(result, func(d *models.Deposit) (time.Time, string) { return d.CreatedAt, d.ID }, ascending)
	return result
}

// ---------- join requests ----------

type joinRequestRepo struct{ s *Store }

func (r *joinRequestRepo) Create(ctx context.Context, req *models.JoinRequest) error {
	if err := requireID(req.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.s.now()
	}
	r.s.data.joinRequests[req.ID] = *req
	return nil
}

func (r *joinRequestRepo) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.data.joinRequests[id]
	if !ok {
		return nil, domain.ErrJoinRequestNotFound
	}
	return &req, nil
}

func (r *joinRequestRepo) ListByStatus(ctx context.Context, status string) ([]*models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.JoinRequest
	for _, req := range r.s.data.joinRequests {
		if req.Status == status {
			result = append(result, &req)
		}
	}
	sortByTime(result, func(j *models.JoinRequest) (time.Time, string) { return j.CreatedAt, j.ID }, true)
	return result, nil
}

func (r *joinRequestRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	items, _ := r.ListByStatus(ctx, status)
	return int64(len(items)), nil
}

// ---------- loans ----------

type loanRepo struct{ s *Store }

func (r *loanRepo) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.data.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return &l, nil
}

func (r *loanRepo) ListActive(ctx context.Context) ([]*models.Loan, error) {
	return r.filter(func(l models.Loan) bool { return l.RemainingBalance.IsPositive() }), nil
}

func (r *loanRepo) ListByUser(ctx context.Context, userID string) ([]*models.Loan, error) {
	return r.filter(func(l models.Loan) bool { return l.UserID == userID }), nil
}

func (r *loanRepo) ListRepayments(ctx context.Context, loanID string) ([]*models.Repayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.Repayment
	for _, p := range r.s.data.repayments {
		if p.LoanID == loanID {
			result = append(result, &p)
		}
	}
	sortByTime(result, func(p *models.Repayment) (time.Time, string) { return p.Date, p.ID }, false)
	return result, nil
}

func (r *loanRepo) CountActive(ctx context.Context) (int64, error) {
	items, _ := r.ListActive(ctx)
	return int64(len(items)), nil
}

func (r *loanRepo) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, l := range r.s.data.loans {
		sum = sum.Add(l.RemainingBalance)
	}
	return sum, nil
}

func (r *loanRepo) filter(keep func(models.Loan) bool) []*models.Loan {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.Loan
	for _, l := range r.s.data.loans {
		if keep(l) {
			result = append(result, &l)
		}
	}
	sortByTime(result, func(l *models.Loan) (time.Time, string) { return l.CreatedAt, l.ID }, false)
	return result
}

// ---------- notifications ----------

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insertNotification(r.s.data, n, r.s.now())
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.Notification
	for _, n := range r.s.data.notifications {
		if n.Recipient == recipient {
			result = append(result, &n)
		}
	}
	sortByTime(result, func(n *models.Notification) (time.Time, string) { return n.CreatedAt, n.ID }, false)
	return window(result, 0, limit), nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipient string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, n := range r.s.data.notifications {
		if n.Recipient == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.data.notifications {
		if n.Recipient == recipient && !n.Read {
			n.Read = true
			r.s.data.notifications[id] = n
			count++
		}
	}
	return count, nil
}

// ---------- notices ----------

type noticeRepo struct{ s *Store }

func (r *noticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	if err := requireID(notice.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = r.s.now()
	}
	r.s.data.notices[notice.ID] = *notice
	return nil
}

func (r *noticeRepo) List(ctx context.Context, limit int) ([]*models.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*models.Notice, 0, len(r.s.data.notices))
	for _, n := range r.s.data.notices {
		result = append(result, &n)
	}
	sortByTime(result, func(n *models.Notice) (time.Time, string) { return n.CreatedAt, n.ID }, false)
	return window(result, 0, limit), nil
}

func (r *noticeRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.notices[id]; !ok {
		return domain.ErrNoticeNotFound
	}
	delete(r.s.data.notices, id)
	return nil
}

// ---------- audit log ----------

type auditLogRepo struct{ s *Store }

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insertAuditLog(r.s.data, entry, r.s.now())
}

func (r *auditLogRepo) ListRecent(ctx context.Context, logType string, limit int) ([]*models.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []*models.AuditLog
	for _, e := range r.s.data.auditLogs {
		if logType == "" || e.Type == logType {
			result = append(result, &e)
		}
	}
	sortByTime(result, func(e *models.AuditLog) (time.Time, string) { return e.Timestamp, e.ID }, false)
	return window(result, 0, limit), nil
}

// ---------- settings ----------

type settingRepo struct{ s *Store }

func (r *settingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	setting, ok := r.s.data.settings[key]
	if !ok {
		return nil, domain.ErrSettingNotFound
	}
	return &setting, nil
}

func (r *settingRepo) Put(ctx context.Context, setting *models.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	setting.UpdatedAt = r.s.now()
	r.s.data.settings[setting.Key] = *setting
	return nil
}

// ---------- refresh tokens ----------

type refreshTokenRepo struct{ s *Store }

func (r *refreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := requireID(token.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.s.now()
	}
	r.s.data.refreshTokens[token.ID] = *token
	return nil
}

func (r *refreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.data.refreshTokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			return &t, nil
		}
	}
	return nil, domain.ErrTokenInvalid
}

func (r *refreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return r.revoke(func(t models.RefreshToken) bool { return t.TokenHash == tokenHash })
}

func (r *refreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID string) error {
	return r.revoke(func(t models.RefreshToken) bool { return t.UserID == userID })
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	var n int64
	for id, t := range r.s.data.refreshTokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.data.refreshTokens, id)
			n++
		}
	}
	return n, nil
}

func (r *refreshTokenRepo) revoke(match func(models.RefreshToken) bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, t := range r.s.data.refreshTokens {
		if t.RevokedAt == nil && match(t) {
			t.RevokedAt = &now
			r.s.data.refreshTokens[id] = t
		}
	}
	return nil
}

// ---------- helpers ----------

func sortByTime[T any](items []*T, key func(*T) (time.Time, string), ascending bool) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			if ascending {
				return idi < idj
			}
			return idi > idj
		}
		if ascending {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
}

func window[T any](items []*T, offset, limit int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
