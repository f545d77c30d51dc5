package domain

// Statistics 管理面板展示的统计信息
type Statistics struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"` // 至少持有一个邮箱的用户
	TotalMailboxes int `json:"totalMailboxes"`
	BannedUsers    int `json:"bannedUsers"`
	Admins         int `json:"admins"`
}
