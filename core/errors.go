package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 引擎信号不足：INSUFFICIENT_SIGNAL（非致命，调用方提示用户多收藏/评分）
//   - 存储不可用：UNAVAILABLE（致命，直接上抛，不做重试）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INSUFFICIENT_SIGNAL"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound           = "NOT_FOUND"           // 资源不存在
	ErrorCodeNotSupported       = "NOT_SUPPORTED"       // 操作不支持
	ErrorCodeUnavailable        = "UNAVAILABLE"         // 存储/服务不可用
	ErrorCodeInvalidInput       = "INVALID_INPUT"       // 输入无效
	ErrorCodeInsufficientSignal = "INSUFFICIENT_SIGNAL" // 历史或候选数据不足
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleEngine  = "engine"  // 引擎编排模块
	ModuleRecall  = "recall"  // 候选召回模块
	ModuleProfile = "profile" // 画像估计模块
)

// 引擎信号不足的三个来源共用同一个错误：历史 < 5、候选池 < 20、过滤后存活 < 10。
// 统计子计算永远不会因数据稀疏失败，它们退化为 unknown/no-signal 值。
var ErrInsufficientSignal = NewDomainError(ModuleEngine, ErrorCodeInsufficientSignal,
	"engine: not enough history or candidates to build a recommendation")

// IsInsufficientSignal 检查错误是否为信号不足（非致命，调用方应提示用户补充历史）。
func IsInsufficientSignal(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInsufficientSignal
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
