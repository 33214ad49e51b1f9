package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"gorm.io/gorm"
)

// UserRepository user data access, including the hierarchy queries used
// by the access filter and subordinate resolution.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// withChain preloads the full organizational chain of a user.
func withChain(db *gorm.DB) *gorm.DB {
	return db.
		Preload("JobPosition.Position").
		Preload("JobPosition.Department.Office").
		Preload("Office")
}

// hierarchyOrder is the public sort contract for resolved user lists:
// position level, then department name, then last name, then first name.
func hierarchyOrder(db *gorm.DB) *gorm.DB {
	return db.Order("positions.level ASC, departments.name ASC, users.last_name ASC, users.first_name ASC")
}

// joinChain joins users to their job position, position and department
// so level and department predicates can be applied in SQL.
func (r *UserRepository) joinChain(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN job_positions ON job_positions.id = users.job_position_id").
		Joins("JOIN positions ON positions.id = job_positions.position_id").
		Joins("JOIN departments ON departments.id = job_positions.department_id").
		Where("users.is_active = ?", true)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := withChain(r.db.WithContext(ctx)).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmployeeCode(ctx context.Context, code string) (*entity.User, error) {
	var user entity.User
	err := withChain(r.db.WithContext(ctx)).Where("employee_code = ?", code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := withChain(r.db.WithContext(ctx)).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByCardID(ctx context.Context, cardID string) (*entity.User, error) {
	var user entity.User
	err := withChain(r.db.WithContext(ctx)).Where("card_id = ?", cardID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Deactivate flips is_active off. Users with report history are never
// hard-deleted.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountReports(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListActive returns every active user with the chain preloaded, in
// hierarchy order.
func (r *UserRepository) ListActive(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := hierarchyOrder(withChain(r.joinChain(ctx))).Find(&users).Error
	return users, err
}

// ListByLevelRange returns active users in the viewer's office whose
// position level lies in (minExclusive, maxInclusive]. A non-empty
// departmentID further restricts to that department.
func (r *UserRepository) ListByLevelRange(ctx context.Context, officeID string, minExclusive, maxInclusive int, departmentID string) ([]entity.User, error) {
	query := r.joinChain(ctx).
		Where("users.office_id = ?", officeID).
		Where("positions.level > ? AND positions.level <= ?", minExclusive, maxInclusive)
	if departmentID != "" {
		query = query.Where("job_positions.department_id = ?", departmentID)
	}

	var users []entity.User
	err := hierarchyOrder(withChain(query)).Find(&users).Error
	return users, err
}

// ListByDepartmentAndLevel returns active users of one department at an
// exact position level. Used for direct-report expansion.
func (r *UserRepository) ListByDepartmentAndLevel(ctx context.Context, departmentID string, level int) ([]entity.User, error) {
	var users []entity.User
	err := hierarchyOrder(withChain(
		r.joinChain(ctx).
			Where("job_positions.department_id = ?", departmentID).
			Where("positions.level = ?", level),
	)).Find(&users).Error
	return users, err
}

// ListByOfficeDeeperThan returns active office users below the given
// level. Used for cross-department expansion under management parents.
func (r *UserRepository) ListByOfficeDeeperThan(ctx context.Context, officeID string, level int) ([]entity.User, error) {
	var users []entity.User
	err := hierarchyOrder(withChain(
		r.joinChain(ctx).
			Where("users.office_id = ?", officeID).
			Where("positions.level > ?", level),
	)).Find(&users).Error
	return users, err
}

// ListSameDepartment returns active users sharing a department. With
// excludeManagement set, management positions are filtered out so junior
// staff never see manager data.
func (r *UserRepository) ListSameDepartment(ctx context.Context, departmentID string, excludeManagement bool) ([]entity.User, error) {
	query := r.joinChain(ctx).
		Where("job_positions.department_id = ?", departmentID)
	if excludeManagement {
		query = query.Where("positions.is_management = ?", false)
	}

	var users []entity.User
	err := hierarchyOrder(withChain(query)).Find(&users).Error
	return users, err
}

// ListByIDs fetches users by id with the chain preloaded, in hierarchy
// order.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	var users []entity.User
	err := hierarchyOrder(withChain(
		r.joinChain(ctx).Where("users.id IN ?", ids),
	)).Find(&users).Error
	return users, err
}

// withWeekReports preloads each user's report for one week with its
// tasks. The unique (user, week, year) key guarantees at most one.
func withWeekReports(db *gorm.DB, week, year int) *gorm.DB {
	return db.
		Preload("Reports", "week_number = ? AND year = ?", week, year).
		Preload("Reports.Tasks")
}

// ListByIDsWithReports fetches users by id with chain and the target
// week's report attached. Non-reportable positions are excluded from
// every report-obligation computation.
func (r *UserRepository) ListByIDsWithReports(ctx context.Context, ids []string, week, year int) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	var users []entity.User
	err := hierarchyOrder(withWeekReports(withChain(
		r.joinChain(ctx).
			Where("users.id IN ?", ids).
			Where("positions.is_reportable = ?", true),
	), week, year)).Find(&users).Error
	return users, err
}

// ListActiveWithReports fetches all active reportable users with the
// target week's report attached, optionally restricted to one office.
func (r *UserRepository) ListActiveWithReports(ctx context.Context, officeID string, week, year int) ([]entity.User, error) {
	query := r.joinChain(ctx).
		Where("positions.is_reportable = ?", true)
	if officeID != "" {
		query = query.Where("users.office_id = ?", officeID)
	}

	var users []entity.User
	err := hierarchyOrder(withWeekReports(withChain(query), week, year)).Find(&users).Error
	return users, err
}
