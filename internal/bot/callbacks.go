package bot

import (
	"strconv"
	"strings"
)

// 回调数据的动作名，参数以冒号分隔，整体不超过 Telegram 的 64 字节限制
const (
	cbLanguage     = "lang"     // lang:<code>
	cbPickLanguage = "language" // 打开语言选择
	cbMenu         = "menu"
	cbCreate       = "create"
	cbMyEmails     = "list"
	cbPickInbox    = "pick"
	cbView         = "view"   // view:<mailbox>
	cbInbox        = "inbox"  // inbox:<mailbox>
	cbMessage      = "msg"    // msg:<mailbox>:<index>
	cbDelete       = "del"    // del:<mailbox>
	cbDeleteOK     = "delok"  // delok:<mailbox>
	cbDeleteAll    = "delall" // 确认前
	cbDeleteAllOK  = "delallok"
	cbStats        = "stats"
	cbVerify       = "verify"
	cbCancel       = "cancel"

	cbAdmin            = "adm"
	cbAdminStats       = "adm_stats"
	cbAdminChannel     = "adm_chan"
	cbAdminSetChannel  = "adm_setchan"
	cbAdminChannelText = "adm_chantext"
	cbAdminToggleSub   = "adm_togsub"
	cbAdminDelChannel  = "adm_delchan"
	cbAdminWelcome     = "adm_welcome"
	cbAdminWelcomeDel  = "adm_welcomedel"
	cbAdminBan         = "adm_ban"
	cbAdminUnban       = "adm_unban"
	cbAdminBroadcast   = "adm_bcast"
	cbAdminToggleBot   = "adm_togbot"
	cbAdminOfflineText = "adm_offtext"
	cbAdminToggleFwd   = "adm_togfwd"
	cbAdminAdmins      = "adm_admins"
	cbAdminAddAdmin    = "adm_addadm"
	cbAdminRemoveAdmin = "adm_rmadm"
)

// Callback 解析后的回调数据
type Callback struct {
	Action string
	Args   []string
}

// ParseCallback 解析回调数据
func ParseCallback(data string) Callback {
	parts := strings.Split(data, ":")
	return Callback{Action: parts[0], Args: parts[1:]}
}

// Arg 返回第 i 个参数，不存在时为空
func (c Callback) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// IntArg 以整数形式返回第 i 个参数
func (c Callback) IntArg(i int) (int, bool) {
	n, err := strconv.Atoi(c.Arg(i))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsAdmin 是否为管理面板的回调
func (c Callback) IsAdmin() bool {
	return c.Action == cbAdmin || strings.HasPrefix(c.Action, cbAdmin+"_")
}

func callbackData(action string, args ...string) string {
	if len(args) == 0 {
		return action
	}
	return action + ":" + strings.Join(args, ":")
}
