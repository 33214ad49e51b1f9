package repository

import (
	"context"
	"errors"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"gorm.io/gorm"
)

// OfficeRepository office reference data
type OfficeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

func (r *OfficeRepository) FindByID(ctx context.Context, id string) (*entity.Office, error) {
	var office entity.Office
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (r *OfficeRepository) FindByName(ctx context.Context, name string) (*entity.Office, error) {
	var office entity.Office
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (r *OfficeRepository) List(ctx context.Context) ([]entity.Office, error) {
	var offices []entity.Office
	err := r.db.WithContext(ctx).Order("name ASC").Find(&offices).Error
	return offices, err
}

func (r *OfficeRepository) Create(ctx context.Context, office *entity.Office) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *OfficeRepository) Update(ctx context.Context, office *entity.Office) error {
	return r.db.WithContext(ctx).Save(office).Error
}

func (r *OfficeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Office{}).Error
}

// CountChildren counts departments and users still referencing the office.
func (r *OfficeRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var departments, users int64
	if err := r.db.WithContext(ctx).Model(&entity.Department{}).
		Where("office_id = ?", id).Count(&departments).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("office_id = ?", id).Count(&users).Error; err != nil {
		return 0, err
	}
	return departments + users, nil
}

// DepartmentRepository department reference data
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).Preload("Office").Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) FindByNameInOffice(ctx context.Context, officeID, name string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).
		Where("office_id = ? AND name = ?", officeID, name).
		First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) List(ctx context.Context, officeID string) ([]entity.Department, error) {
	var depts []entity.Department
	query := r.db.WithContext(ctx).Preload("Office")
	if officeID != "" {
		query = query.Where("office_id = ?", officeID)
	}
	err := query.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Department{}).Error
}

func (r *DepartmentRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.JobPosition{}).
		Where("department_id = ?", id).Count(&count).Error
	return count, err
}

// PositionRepository position reference data
type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) FindByID(ctx context.Context, id string) (*entity.Position, error) {
	var pos entity.Position
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pos).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pos, nil
}

func (r *PositionRepository) FindByName(ctx context.Context, name string) (*entity.Position, error) {
	var pos entity.Position
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&pos).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pos, nil
}

func (r *PositionRepository) List(ctx context.Context) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).Order("level ASC, name ASC").Find(&positions).Error
	return positions, err
}

func (r *PositionRepository) Create(ctx context.Context, pos *entity.Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *PositionRepository) Update(ctx context.Context, pos *entity.Position) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *PositionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Position{}).Error
}

func (r *PositionRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.JobPosition{}).
		Where("position_id = ?", id).Count(&count).Error
	return count, err
}

// JobPositionRepository job position reference data
type JobPositionRepository struct {
	db *gorm.DB
}

func NewJobPositionRepository(db *gorm.DB) *JobPositionRepository {
	return &JobPositionRepository{db: db}
}

func (r *JobPositionRepository) FindByID(ctx context.Context, id string) (*entity.JobPosition, error) {
	var jp entity.JobPosition
	err := r.db.WithContext(ctx).
		Preload("Position").
		Preload("Department.Office").
		Where("id = ?", id).
		First(&jp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &jp, nil
}

// FindByKey looks up the unique (position, job name, department) tuple.
func (r *JobPositionRepository) FindByKey(ctx context.Context, positionID, jobName, departmentID string) (*entity.JobPosition, error) {
	var jp entity.JobPosition
	err := r.db.WithContext(ctx).
		Where("position_id = ? AND job_name = ? AND department_id = ?", positionID, jobName, departmentID).
		First(&jp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &jp, nil
}

func (r *JobPositionRepository) List(ctx context.Context, officeID, departmentID string) ([]entity.JobPosition, error) {
	var jps []entity.JobPosition
	query := r.db.WithContext(ctx).
		Preload("Position").
		Preload("Department.Office").
		Where("is_active = ?", true)
	if officeID != "" {
		query = query.Where("office_id = ?", officeID)
	}
	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	err := query.Order("job_name ASC").Find(&jps).Error
	return jps, err
}

func (r *JobPositionRepository) Create(ctx context.Context, jp *entity.JobPosition) error {
	return r.db.WithContext(ctx).Create(jp).Error
}

func (r *JobPositionRepository) Update(ctx context.Context, jp *entity.JobPosition) error {
	return r.db.WithContext(ctx).Save(jp).Error
}

func (r *JobPositionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.JobPosition{}).Error
}

func (r *JobPositionRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("job_position_id = ?", id).Count(&count).Error
	return count, err
}
