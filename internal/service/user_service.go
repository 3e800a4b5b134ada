package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return buildUserInfo(user), nil
}

// UpdateRole 管理员调整用户角色，新角色在下次登录签发的 token 中生效
func (s *UserService) UpdateRole(ctx context.Context, viewer Viewer, userID int64, role string) (*dto.UserInfo, error) {
	if !viewer.IsAdmin() {
		return nil, ErrRolePermission
	}

	switch role {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.log.Info("user role changed", zap.Int64("user_id", userID), zap.String("role", role), zap.Int64("by", viewer.UserID))

	return s.GetProfile(ctx, userID)
}
