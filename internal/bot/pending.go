package bot

import (
	"time"

	"tempmail/bot/internal/cache"
)

// PendingKind 等待用户输入的类型
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingBanTarget
	PendingUnbanTarget
	PendingChannel
	PendingChannelPrompt
	PendingWelcome
	PendingBroadcast
	PendingOfflineMessage
	PendingAddAdmin
	PendingRemoveAdmin
)

// pendingTTL 等待输入的有效期
const pendingTTL = 10 * time.Minute

func (k PendingKind) String() string {
	switch k {
	case PendingBanTarget:
		return "ban_target"
	case PendingUnbanTarget:
		return "unban_target"
	case PendingChannel:
		return "channel"
	case PendingChannelPrompt:
		return "channel_prompt"
	case PendingWelcome:
		return "welcome"
	case PendingBroadcast:
		return "broadcast"
	case PendingOfflineMessage:
		return "offline_message"
	case PendingAddAdmin:
		return "add_admin"
	case PendingRemoveAdmin:
		return "remove_admin"
	default:
		return "none"
	}
}

// AdminOnly 是否只有管理员可以进入该状态
func (k PendingKind) AdminOnly() bool {
	return k != PendingNone
}

// PendingInput 用户下一条文本消息的用途
type PendingInput struct {
	Kind PendingKind
	// Channel 编辑提示语时对应的频道，频道在此期间被替换则输入作废
	Channel string
}

// PendingInputs 按用户保存等待中的输入，超过有效期自动丢弃
type PendingInputs struct {
	entries *cache.LocalCache[int64, PendingInput]
}

// NewPendingInputs 创建等待输入表
func NewPendingInputs(opts ...cache.Option) *PendingInputs {
	return &PendingInputs{entries: cache.NewLocalCache[int64, PendingInput](pendingTTL, opts...)}
}

// Expect 记录用户接下来需要输入的内容
func (p *PendingInputs) Expect(userID int64, in PendingInput) {
	p.entries.Set(userID, in)
}

// Take 取出并清除用户的等待状态；管理员专属的状态对非管理员无效
func (p *PendingInputs) Take(userID int64, isAdmin bool) (PendingInput, bool) {
	in, ok := p.entries.Take(userID)
	if !ok {
		return PendingInput{}, false
	}
	if in.Kind.AdminOnly() && !isAdmin {
		return PendingInput{}, false
	}
	return in, true
}

// Cancel 清除用户的等待状态，返回是否存在
func (p *PendingInputs) Cancel(userID int64) bool {
	_, ok := p.entries.Take(userID)
	return ok
}

// Close 停止清理协程
func (p *PendingInputs) Close() {
	p.entries.Close()
}
