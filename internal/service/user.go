package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/storage"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("user not found")

// UserService 封装机器人用户相关业务操作。
type UserService struct {
	repo storage.UserRepository
	log  *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(repo storage.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: repo, log: log}
}

// GetOrCreate 获取用户，不存在时创建；每次调用都会刷新 Telegram 资料快照
func (s *UserService) GetOrCreate(ctx context.Context, telegramID int64, profile domain.Profile) (*domain.User, error) {
	user, err := s.repo.GetOrCreateUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user.ApplyProfile(profile) {
		if err := s.repo.SaveUser(ctx, user); err != nil {
			s.log.Warn("refresh user profile failed", zap.Int64("user_id", telegramID), zap.Error(err))
		}
	}
	return user, nil
}

// Transient 存储不可用时使用的临时用户，不会被保存
func (s *UserService) Transient(telegramID int64, profile domain.Profile) *domain.User {
	user := &domain.User{TelegramID: telegramID}
	user.ApplyProfile(profile)
	return user
}

// SetLanguage 保存用户选择的语言
func (s *UserService) SetLanguage(ctx context.Context, telegramID int64, lang domain.Language) (*domain.User, error) {
	user, err := s.repo.GetOrCreateUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	user.Language = lang.OrDefault()
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Find 按数字 ID 或 @username 查找用户
func (s *UserService) Find(ctx context.Context, ref string) (*domain.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrUserNotFound
	}

	var (
		user *domain.User
		err  error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		user, err = s.repo.GetUser(ctx, id)
	} else {
		user, err = s.repo.GetUserByUsername(ctx, ref)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ResolveLanguage 已选择语言优先，否则按 Telegram 客户端语言匹配
func ResolveLanguage(user *domain.User, languageCode string) domain.Language {
	if user != nil && user.Language.Valid() {
		return user.Language
	}
	return i18n.Match(languageCode)
}
