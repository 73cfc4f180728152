package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Language *string `json:"language"`
	Avatar   *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	return s.Repo.FindByID(id)
}

func (s *UserService) ListUsers(page, limit int, role, name string) ([]model.User, int64, error) {
	return s.Repo.List(page, limit, role, name)
}

type AdminUserUpdateRequest struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
}

func (s *UserService) AdminUpdateUser(id uint, req AdminUserUpdateRequest) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ResetPassword(id uint, newPassword string) error {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.Repo.Update(user)
}

func (s *UserService) DeleteUser(id uint) error {
	return s.Repo.Delete(id)
}
