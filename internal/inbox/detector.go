// Package inbox 轮询 mail.tm 邮箱，识别新邮件并推送给邮箱所有者。
package inbox

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/storage"
)

// MailClient 检测器使用的邮件服务能力
type MailClient interface {
	Messages(ctx context.Context, token string) ([]mailtm.MessageSummary, error)
	Message(ctx context.Context, token, id string) (*mailtm.Message, error)
}

// Watermarks 水位线存储
type Watermarks interface {
	GetWatermark(ctx context.Context, address string) (*domain.Watermark, error)
	SetWatermark(ctx context.Context, wm *domain.Watermark) error
}

// NewMessage 自上次推送以来到达的邮件
type NewMessage struct {
	Message *mailtm.Message
	OTP     string
}

// HasOTP 是否识别到验证码
func (m NewMessage) HasOTP() bool { return m.OTP != "" }

// Detector 比较邮件列表与水位线，找出新邮件
type Detector struct {
	client     MailClient
	watermarks Watermarks
	now        func() time.Time
	log        *zap.Logger
}

// NewDetector 创建检测器
func NewDetector(client MailClient, watermarks Watermarks, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{client: client, watermarks: watermarks, now: time.Now, log: log}
}

// Poll 返回 address 上的新邮件，按到达顺序从旧到新排列。
//
// 首次轮询只记录基线，不返回历史邮件。列表或任意一封邮件获取失败时
// 整体返回错误且不移动水位线；全部获取成功后水位线前移到列表中最新的邮件。
func (d *Detector) Poll(ctx context.Context, address, token string) ([]NewMessage, error) {
	wm, err := d.watermarks.GetWatermark(ctx, address)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		wm = nil
	case err != nil:
		return nil, fmt.Errorf("load watermark: %w", err)
	}

	list, err := d.client.Messages(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(list) == 0 {
		if wm == nil {
			// 空邮箱的基线为空，之后到达的每封邮件都算新邮件
			return nil, d.setBaseline(ctx, address)
		}
		return nil, nil
	}
	sortNewestFirst(list)
	newest := list[0]

	if wm == nil {
		d.log.Debug("watermark baseline set",
			zap.String("mailbox", address),
			zap.String("message_id", newest.ID),
			zap.Int("existing", len(list)),
		)
		return nil, d.advance(ctx, address, newest)
	}

	fresh := unseen(list, wm)
	if len(fresh) == 0 {
		return nil, nil
	}

	out := make([]NewMessage, 0, len(fresh))
	for i := len(fresh) - 1; i >= 0; i-- {
		msg, err := d.client.Message(ctx, token, fresh[i].ID)
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", fresh[i].ID, err)
		}
		otp, _ := ExtractOTP(msg.Body())
		out = append(out, NewMessage{Message: msg, OTP: otp})
	}

	if err := d.advance(ctx, address, newest); err != nil {
		return nil, err
	}
	return out, nil
}

// advance 把水位线移到 newest，不会向更早的邮件回退
func (d *Detector) advance(ctx context.Context, address string, newest mailtm.MessageSummary) error {
	err := d.watermarks.SetWatermark(ctx, &domain.Watermark{
		Address:          address,
		MessageID:        newest.ID,
		MessageCreatedAt: newest.CreatedAt,
		UpdatedAt:        d.now(),
	})
	if err != nil {
		return fmt.Errorf("save watermark: %w", err)
	}
	return nil
}

// setBaseline 记录空基线
func (d *Detector) setBaseline(ctx context.Context, address string) error {
	d.log.Debug("empty watermark baseline set", zap.String("mailbox", address))
	if err := d.watermarks.SetWatermark(ctx, &domain.Watermark{Address: address, UpdatedAt: d.now()}); err != nil {
		return fmt.Errorf("save watermark: %w", err)
	}
	return nil
}

// unseen 从最新开始收集，遇到水位线对应的邮件或不晚于水位线时间的邮件即停止
func unseen(list []mailtm.MessageSummary, wm *domain.Watermark) []mailtm.MessageSummary {
	var fresh []mailtm.MessageSummary
	for _, m := range list {
		if m.ID == wm.MessageID {
			break
		}
		if !wm.MessageCreatedAt.IsZero() && !m.CreatedAt.IsZero() && !m.CreatedAt.After(wm.MessageCreatedAt) {
			break
		}
		fresh = append(fresh, m)
	}
	return fresh
}

// sortNewestFirst 按创建时间重新排序，时间相同或缺失时保持服务端顺序
func sortNewestFirst(list []mailtm.MessageSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
