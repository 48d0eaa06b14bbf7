package errcode

// 后台通知中的错误码：
// - 0：成功
// - 4xxx：配置或资源缺失，重试无效（例如未配置站长邮箱）
// - 5xxx：系统错误（SMTP 失败、重试耗尽）
const (
	OK              = 0
	ResourceMissing = 4004
	SystemError     = 5000
)
