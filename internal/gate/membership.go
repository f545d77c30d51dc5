package gate

// 成员状态取值与 Telegram getChatMember 返回一致
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

// Membership 一次成员查询的结果。
//
// 查询出错时只能通过 LookupFailed 构造，Subscribed 对错误分支恒为 false，
// 调用方无法从失败的查询中得到"已订阅"。
type Membership struct {
	status   string
	isMember bool
	err      error
}

// Member 构造成功的查询结果，isMember 仅对 restricted 状态有意义
func Member(status string, isMember bool) Membership {
	return Membership{status: status, isMember: isMember}
}

// LookupFailed 构造失败的查询结果
func LookupFailed(err error) Membership {
	if err == nil {
		err = errUnknownLookup
	}
	return Membership{err: err}
}

// Subscribed 判断是否视为已订阅
func (m Membership) Subscribed() bool {
	if m.err != nil {
		return false
	}
	switch m.status {
	case StatusCreator, StatusAdministrator, StatusMember:
		return true
	case StatusRestricted:
		return m.isMember
	default:
		return false
	}
}

// Status 返回原始状态，查询失败时为空
func (m Membership) Status() string { return m.status }

// Err 返回查询错误
func (m Membership) Err() error { return m.err }
