package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create inserts a member. Balances start at whatever the caller set (zero for new accounts).
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return mapError(r.db.WithContext(ctx).Create(member).Error, nil)
}

// GetByID gets a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, mapError(err, domain.ErrMemberNotFound)
	}
	return &member, nil
}

// GetByPhone gets a member by login phone
func (r *memberRepository) GetByPhone(ctx context.Context, phone string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&member).Error; err != nil {
		return nil, mapError(err, domain.ErrMemberNotFound)
	}
	return &member, nil
}

// ExistsByPhone checks if phone is registered
func (r *memberRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, mapError(err, nil)
}

// List lists members with filter and pagination, by name
func (r *memberRepository) List(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR reg_no LIKE ?", like, like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil)
	}
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, mapError(err, nil)
	}
	return members, total, nil
}

// ListActive returns every active member account (role member)
func (r *memberRepository) ListActive(ctx context.Context) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("role = ?", string(domain.RoleMember)).
		Where("status = ?", domain.MemberActive).
		Find(&members).Error
	return members, mapError(err, nil)
}

// UpdateProfile updates whitelisted profile columns only
func (r *memberRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	cols := profileColumns(update)
	if len(cols) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return mapError(res.Error, domain.ErrMemberNotFound)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 when values are unchanged, so confirm the row exists
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePassword replaces the stored hash
func (r *memberRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Update("password_hash", passwordHash)
	return mapError(res.Error, domain.ErrMemberNotFound)
}

// Count counts members with the given role, all roles when empty
func (r *memberRepository) Count(ctx context.Context, role string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Member{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Count(&count).Error
	return count, mapError(err, nil)
}

// SumSavings totals total_savings across all accounts
func (r *memberRepository) SumSavings(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Select("COALESCE(SUM(total_savings), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError(err, nil)
	}
	return sum, nil
}

// profileColumns builds the column map for UpdateProfile. total_savings never appears here.
func profileColumns(update ProfileUpdate) map[string]interface{} {
	cols := map[string]interface{}{}
	if update.Name != nil {
		cols["name"] = *update.Name
	}
	if update.FatherName != nil {
		cols["father_name"] = *update.FatherName
	}
	if update.NID != nil {
		cols["nid"] = *update.NID
	}
	if update.RegNo != nil {
		cols["reg_no"] = *update.RegNo
	}
	if update.MonthlyTarget != nil {
		cols["monthly_target"] = *update.MonthlyTarget
	}
	if update.Status != nil {
		cols["status"] = *update.Status
	}
	return cols
}
