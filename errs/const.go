package errs

const (
	ErrCode_OK       = 0
	ErrCode_Unknown  = 1
	ErrCode_Resource = 2 // 命令队列满或记录池耗尽，可重试
	ErrCode_Closed   = 3 // 定时器服务已关闭
	ErrCode_Timeout  = 4 // 等待定时器静止超时
	ErrCode_Contract = 5 // 调用方违反约定，触发crash
)

var (
	Unknown  = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	Resource = CreateCodeError(ErrCode_Resource, "RESOURCE")
	Closed   = CreateCodeError(ErrCode_Closed, "CLOSED")
	Timeout  = CreateCodeError(ErrCode_Timeout, "TIMEOUT")
	Contract = CreateCodeError(ErrCode_Contract, "CONTRACT")
)
