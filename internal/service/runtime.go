package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

// SettingStore 运行状态的持久化位置
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// RuntimeState 进程内的全局开关，读取无需访问存储，修改时先持久化再生效
type RuntimeState struct {
	store SettingStore
	log   *zap.Logger

	mu             sync.RWMutex
	botEnabled     bool
	offlineMessage string
	forwarding     bool
}

// NewRuntimeState 创建运行状态，默认机器人开启、转发关闭
func NewRuntimeState(store SettingStore, log *zap.Logger) *RuntimeState {
	if log == nil {
		log = zap.NewNop()
	}
	return &RuntimeState{store: store, log: log, botEnabled: true}
}

// Load 从设置中恢复状态，缺失的键保留默认值
func (r *RuntimeState) Load(ctx context.Context) error {
	var errs []error

	enabled, err := r.loadBool(ctx, domain.SettingBotEnabled)
	if err != nil {
		errs = append(errs, err)
	}
	forwarding, err := r.loadBool(ctx, domain.SettingForwarding)
	if err != nil {
		errs = append(errs, err)
	}
	message, err := r.store.GetSetting(ctx, domain.SettingOfflineMessage)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		errs = append(errs, fmt.Errorf("load %s: %w", domain.SettingOfflineMessage, err))
	}

	r.mu.Lock()
	if enabled != nil {
		r.botEnabled = *enabled
	}
	if forwarding != nil {
		r.forwarding = *forwarding
	}
	if err == nil {
		r.offlineMessage = message
	}
	r.mu.Unlock()

	return errors.Join(errs...)
}

func (r *RuntimeState) loadBool(ctx context.Context, key string) (*bool, error) {
	raw, err := r.store.GetSetting(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.log.Warn("ignoring malformed setting", zap.String("key", key), zap.String("value", raw))
		return nil, nil
	}
	return &v, nil
}

// BotEnabled 机器人是否对普通用户开放
func (r *RuntimeState) BotEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.botEnabled
}

// OfflineMessage 停机时展示的自定义文案
func (r *RuntimeState) OfflineMessage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.offlineMessage
}

// ForwardingEnabled 是否把用户消息转发给超级管理员
func (r *RuntimeState) ForwardingEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forwarding
}

// SetBotEnabled 开关机器人
func (r *RuntimeState) SetBotEnabled(ctx context.Context, enabled bool) error {
	if err := r.store.SetSetting(ctx, domain.SettingBotEnabled, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	r.mu.Lock()
	r.botEnabled = enabled
	r.mu.Unlock()
	return nil
}

// SetOfflineMessage 设置停机文案
func (r *RuntimeState) SetOfflineMessage(ctx context.Context, message string) error {
	if err := r.store.SetSetting(ctx, domain.SettingOfflineMessage, message); err != nil {
		return err
	}
	r.mu.Lock()
	r.offlineMessage = message
	r.mu.Unlock()
	return nil
}

// SetForwarding 开关消息转发
func (r *RuntimeState) SetForwarding(ctx context.Context, enabled bool) error {
	if err := r.store.SetSetting(ctx, domain.SettingForwarding, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	r.mu.Lock()
	r.forwarding = enabled
	r.mu.Unlock()
	return nil
}
