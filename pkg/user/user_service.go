package user

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"xianshiji/domain"
	"xianshiji/entities"
	"xianshiji/internal/utils/logger"
	"xianshiji/internal/utils/storage"
	jwtService "xianshiji/pkg/jwt"
)

const avatarFolder = "avatars"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error)
		UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (domain.AvatarResponse, error)
		GetUser(ctx context.Context, id uint) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwtService.JWTService
		s3             storage.AwsS3
	}
)

func NewUserService(userRepository UserRepository, jwtService jwtService.JWTService, s3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)
	if phone == "" && email == "" {
		return domain.UserResponse{}, domain.ErrAccountRequired
	}

	for _, account := range []string{phone, email} {
		if account == "" {
			continue
		}
		_, err := s.userRepository.GetUserByAccount(ctx, account)
		if err == nil {
			return domain.UserResponse{}, domain.ErrUserAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		Nickname: strings.TrimSpace(req.Nickname),
		Phone:    optional(phone),
		Email:    optional(email),
		Password: string(hashed),
		Status:   1,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	logger.Get().Info("user registered", zap.Uint("id", user.ID))
	return toResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByAccount(ctx, strings.TrimSpace(req.Account))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsNotMatch
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsNotMatch
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{User: toResponse(user), Token: token}, nil
}

// UpdateUser replaces the profile fields. A new password is only accepted
// together with the correct current one.
func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, req.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if newPassword := strings.TrimSpace(req.NewPassword); newPassword != "" {
		if req.OldPassword == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
			return domain.UserResponse{}, domain.ErrWrongCurrentPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return domain.UserResponse{}, domain.ErrHashPassword
		}
		user.Password = string(hashed)
	}

	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)
	if phone == "" && email == "" {
		return domain.UserResponse{}, domain.ErrAccountRequired
	}
	for _, account := range []string{phone, email} {
		if account == "" {
			continue
		}
		other, err := s.userRepository.GetUserByAccount(ctx, account)
		if err == nil && other.ID != user.ID {
			return domain.UserResponse{}, domain.ErrUserAlreadyExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, err
		}
	}

	user.Nickname = strings.TrimSpace(req.Nickname)
	user.Phone = optional(phone)
	user.Email = optional(email)

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	return toResponse(user), nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (domain.AvatarResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(ctx, "user-"+strconv.FormatUint(uint64(userID), 10), file, avatarFolder, storage.AllowImage...)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	avatarURL := s.s3.GetPublicLinkKey(objectKey)

	if err := s.userRepository.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return domain.AvatarResponse{}, err
	}

	if old := s.s3.GetObjectKeyFromLink(user.AvatarURL); old != "" && old != objectKey {
		if err := s.s3.DeleteFile(ctx, old); err != nil {
			logger.Get().Warn("failed to delete previous avatar", zap.String("key", old), zap.Error(err))
		}
	}

	return domain.AvatarResponse{AvatarURL: avatarURL}, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toResponse(user), nil
}

func (s *userService) findUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toResponse(user *entities.User) domain.UserResponse {
	res := domain.UserResponse{
		ID:        user.ID,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
	}
	if user.Phone != nil {
		res.Phone = *user.Phone
	}
	if user.Email != nil {
		res.Email = *user.Email
	}
	return res
}
