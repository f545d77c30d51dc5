package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/inbox"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/storage"
)

var (
	// ErrMailboxNotFound 邮箱不存在或不属于当前用户
	ErrMailboxNotFound = errors.New("mailbox not found")
	// ErrMailboxLimit 用户邮箱数量达到上限
	ErrMailboxLimit = errors.New("mailbox limit reached")
)

// MailProvider 邮箱服务商接口，由 mailtm.Client 实现
type MailProvider interface {
	Domains(ctx context.Context) ([]mailtm.Domain, error)
	CreateAccount(ctx context.Context, address, password string) (*mailtm.Account, error)
	Token(ctx context.Context, address, password string) (string, error)
	Messages(ctx context.Context, token string) ([]mailtm.MessageSummary, error)
	Message(ctx context.Context, token, id string) (*mailtm.Message, error)
	DeleteAccount(ctx context.Context, token, accountID string) error
}

// Sealer 加解密邮箱凭据，由 secret.Box 实现
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

// MailboxRecorder 记录邮箱指标
type MailboxRecorder interface {
	RecordMailboxCreated()
	RecordMailboxDeleted(n int)
}

// MailboxService 封装邮箱相关业务操作。
type MailboxService struct {
	repo       storage.MailboxRepository
	provider   MailProvider
	sealer     Sealer
	recorder   MailboxRecorder
	maxPerUser int
	log        *zap.Logger

	mu            sync.Mutex
	random        *rand.Rand
	localAlphabet []rune
	now           func() time.Time
}

// NewMailboxService 创建邮箱业务服务。maxPerUser 为 0 时不限制数量。
func NewMailboxService(repo storage.MailboxRepository, provider MailProvider, sealer Sealer, recorder MailboxRecorder, maxPerUser int, log *zap.Logger) *MailboxService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailboxService{
		repo:          repo,
		provider:      provider,
		sealer:        sealer,
		recorder:      recorder,
		maxPerUser:    maxPerUser,
		log:           log,
		random:        rand.New(rand.NewSource(time.Now().UnixNano())),
		localAlphabet: []rune("abcdefghijklmnopqrstuvwxyz0123456789"),
		now:           time.Now,
	}
}

// Create 为用户注册新的 mail.tm 邮箱
func (s *MailboxService) Create(ctx context.Context, ownerID int64) (*domain.Mailbox, error) {
	if s.maxPerUser > 0 {
		existing, err := s.repo.ListMailboxesByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if len(existing) >= s.maxPerUser {
			return nil, ErrMailboxLimit
		}
	}

	domains, err := s.provider.Domains(ctx)
	if err != nil {
		return nil, fmt.Errorf("load domains: %w", err)
	}
	if len(domains) == 0 {
		return nil, mailtm.ErrNoDomains
	}

	address := fmt.Sprintf("%s@%s", s.randomLocalPart(10), domains[0].Domain)
	password := uuid.NewString()

	account, err := s.provider.CreateAccount(ctx, address, password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	token, err := s.provider.Token(ctx, address, password)
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	sealedToken, err := s.sealer.Seal(token)
	if err != nil {
		return nil, err
	}
	sealedPassword, err := s.sealer.Seal(password)
	if err != nil {
		return nil, err
	}

	mailbox := &domain.Mailbox{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		OwnerID:   ownerID,
		Address:   account.Address,
		AccountID: account.ID,
		Token:     sealedToken,
		Password:  sealedPassword,
		CreatedAt: s.now().UTC(),
	}
	if mailbox.Address == "" {
		mailbox.Address = address
	}
	if err := s.repo.SaveMailbox(ctx, mailbox); err != nil {
		return nil, err
	}
	s.setEmptyBaseline(ctx, mailbox.Address)
	if s.recorder != nil {
		s.recorder.RecordMailboxCreated()
	}

	s.log.Info("mailbox created", zap.Int64("user_id", ownerID), zap.String("mailbox", mailbox.Address))

	out := *mailbox
	out.Token = token
	out.Password = password
	return &out, nil
}

// setEmptyBaseline 新邮箱没有历史邮件，写入空水位线后第一封邮件也会推送
func (s *MailboxService) setEmptyBaseline(ctx context.Context, address string) {
	watermarks, ok := s.repo.(storage.WatermarkRepository)
	if !ok {
		return
	}
	if err := watermarks.SetWatermark(ctx, &domain.Watermark{Address: address, UpdatedAt: s.now().UTC()}); err != nil {
		s.log.Warn("set empty watermark failed", zap.String("mailbox", address), zap.Error(err))
	}
}

// List 返回用户的全部邮箱，按创建时间排序
func (s *MailboxService) List(ctx context.Context, ownerID int64) ([]domain.Mailbox, error) {
	return s.repo.ListMailboxesByOwner(ctx, ownerID)
}

// Get 返回属于用户的邮箱，凭据已解密
func (s *MailboxService) Get(ctx context.Context, ownerID int64, id string) (*domain.Mailbox, error) {
	mailbox, err := s.repo.GetMailbox(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMailboxNotFound
	}
	if err != nil {
		return nil, err
	}
	if mailbox.OwnerID != ownerID {
		return nil, ErrMailboxNotFound
	}

	if mailbox.Token, err = s.sealer.Open(mailbox.Token); err != nil {
		return nil, fmt.Errorf("open token: %w", err)
	}
	if mailbox.Password, err = s.sealer.Open(mailbox.Password); err != nil {
		return nil, fmt.Errorf("open password: %w", err)
	}
	return mailbox, nil
}

// Delete 删除邮箱，远端账户删除失败只记录日志
func (s *MailboxService) Delete(ctx context.Context, ownerID int64, id string) (*domain.Mailbox, error) {
	mailbox, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteMailbox(ctx, mailbox.ID); err != nil {
		return nil, err
	}
	s.deleteRemote(ctx, mailbox)
	if s.recorder != nil {
		s.recorder.RecordMailboxDeleted(1)
	}
	return mailbox, nil
}

// DeleteAll 删除用户的全部邮箱，返回删除数量
func (s *MailboxService) DeleteAll(ctx context.Context, ownerID int64) (int, error) {
	mailboxes, err := s.repo.ListMailboxesByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteMailboxesByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	for i := range mailboxes {
		mb := mailboxes[i]
		token, err := s.sealer.Open(mb.Token)
		if err != nil {
			continue
		}
		mb.Token = token
		s.deleteRemote(ctx, &mb)
	}
	if s.recorder != nil {
		s.recorder.RecordMailboxDeleted(n)
	}
	return n, nil
}

func (s *MailboxService) deleteRemote(ctx context.Context, mailbox *domain.Mailbox) {
	if mailbox.AccountID == "" {
		return
	}
	if err := s.provider.DeleteAccount(ctx, mailbox.Token, mailbox.AccountID); err != nil {
		s.log.Debug("remote account delete failed",
			zap.String("mailbox", mailbox.Address),
			zap.Error(err),
		)
	}
}

// Inbox 列出邮箱中的邮件，最新的在前
func (s *MailboxService) Inbox(ctx context.Context, ownerID int64, id string) (*domain.Mailbox, []mailtm.MessageSummary, error) {
	mailbox, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.provider.Messages(ctx, mailbox.Token)
	if err != nil {
		return mailbox, nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return mailbox, list, nil
}

// OpenedMessage 打开的邮件及识别出的验证码
type OpenedMessage struct {
	Mailbox *domain.Mailbox
	Message *mailtm.Message
	OTP     string
}

// Message 读取邮件全文并识别验证码
func (s *MailboxService) Message(ctx context.Context, ownerID int64, id, messageID string) (*OpenedMessage, error) {
	mailbox, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	msg, err := s.provider.Message(ctx, mailbox.Token, messageID)
	if err != nil {
		return &OpenedMessage{Mailbox: mailbox}, err
	}
	otp, _ := inbox.ExtractOTP(msg.Body())
	return &OpenedMessage{Mailbox: mailbox, Message: msg, OTP: otp}, nil
}

func (s *MailboxService) randomLocalPart(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rune, n)
	for i := range out {
		out[i] = s.localAlphabet[s.random.Intn(len(s.localAlphabet))]
	}
	return string(out)
}
