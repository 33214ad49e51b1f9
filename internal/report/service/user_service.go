package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// UserService administrator-managed user records. Users with report
// history are deactivated, never hard-deleted.
type UserService struct {
	users        *repository.UserRepository
	jobPositions *repository.JobPositionRepository
}

func NewUserService(users *repository.UserRepository, jobPositions *repository.JobPositionRepository) *UserService {
	return &UserService{users: users, jobPositions: jobPositions}
}

// CreateUserRequest create a user
type CreateUserRequest struct {
	EmployeeCode  string  `json:"employee_code" binding:"required"`
	Email         *string `json:"email"`
	Password      string  `json:"password" binding:"required,min=6"`
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	Phone         string  `json:"phone"`
	CardID        *string `json:"card_id"`
	Role          string  `json:"role"`
	JobPositionID string  `json:"job_position_id" binding:"required"`
}

// UpdateUserRequest partial user update
type UpdateUserRequest struct {
	Email         *string `json:"email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	CardID        *string `json:"card_id"`
	Role          *string `json:"role"`
	JobPositionID *string `json:"job_position_id"`
	IsActive      *bool   `json:"is_active"`
}

// Create creates a user under a job position, denormalizing the office
// from the position's department. Duplicate employee code, email or
// card id is a conflict.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if _, err := s.users.FindByEmployeeCode(ctx, req.EmployeeCode); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if req.Email != nil {
		if _, err := s.users.FindByEmail(ctx, *req.Email); err == nil {
			return nil, ErrConflict
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if req.CardID != nil {
		if _, err := s.users.FindByCardID(ctx, *req.CardID); err == nil {
			return nil, ErrConflict
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	jp, err := s.jobPositions.FindByID(ctx, req.JobPositionID)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}

	user := &entity.User{
		ID:            uuid.New().String(),
		EmployeeCode:  req.EmployeeCode,
		Email:         req.Email,
		Password:      hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		CardID:        req.CardID,
		Role:          role,
		JobPositionID: jp.ID,
		OfficeID:      jp.OfficeID,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

// Get returns one user with the full chain.
func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns all active users in hierarchy order.
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.users.ListActive(ctx)
}

// Update applies a partial update. Moving a user to another job
// position re-denormalizes the office.
func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.CardID != nil {
		if user.CardID == nil || *user.CardID != *req.CardID {
			if other, err := s.users.FindByCardID(ctx, *req.CardID); err == nil && other.ID != user.ID {
				return nil, ErrConflict
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		user.CardID = req.CardID
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.JobPositionID != nil && *req.JobPositionID != user.JobPositionID {
		jp, err := s.jobPositions.FindByID(ctx, *req.JobPositionID)
		if err != nil {
			return nil, err
		}
		user.JobPositionID = jp.ID
		user.OfficeID = jp.OfficeID
		user.JobPosition = nil
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Deactivate flips a user inactive. Kept separate from Update so the
// audit trail of bulk deactivations stays obvious in handler logs.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.users.Deactivate(ctx, id)
}

// ChangePassword verifies nothing; admin reset path.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}
