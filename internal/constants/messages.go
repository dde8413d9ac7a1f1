package constants

// 通用错误消息
const (
	// 会员相关
	ErrInvalidMemberKey = "无效的会员key"
	ErrMemberNotFound   = "会员不存在"
	ErrBindFailed       = "绑定用户信息失败。"
	ErrSaveWeChatFailed = "录入用户信息失败，无效的member_id。"

	// 比赛相关
	ErrNoCurrentMatch = "没有设置当前比赛"
	ErrMatchListEmpty = "查询不到比赛列表"
	ErrInvalidMatchID = "无效的比赛ID"
	ErrMatchNotFound  = "比赛不存在"

	// 订单相关
	ErrOrderListEmpty = "订单列表为空。"

	// 参数与系统错误
	ErrInvalidParams   = "参数错误"
	ErrInternalServer  = "服务器内部错误"
	ErrInternalRequest = "内部服务器错误处理请求。"
)

// 成功消息
const (
	SuccessEmailSent = "邮件发送成功"
	ErrEmailSend     = "邮件发送失败"
)
