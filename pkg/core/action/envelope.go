package action

// State 单次调用的状态机
//
//	Idle → Validating → Rejected
//	                  → Invoking → Succeeded | Failed
type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvoking
	StateSucceeded
	StateRejected // 校验失败
	StateFailed   // 外部流程失败
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInvoking:
		return "invoking"
	case StateSucceeded:
		return "succeeded"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal 是否为终态
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateRejected || s == StateFailed
}

// Envelope 返回给调用方的统一响应结构
// 只能通过 Succeeded / Failed 构造，返回后不再修改
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`

	state State
}

// Succeeded 构造成功响应
func Succeeded[T any](message string, data T) Envelope[T] {
	return Envelope[T]{
		Success: true,
		Message: nonEmpty(message, "Success."),
		Data:    &data,
		state:   StateSucceeded,
	}
}

// Failed 构造失败响应，data 恒为 nil
func Failed[T any](message string) Envelope[T] {
	return failedIn[T](StateFailed, message)
}

// Rejected 构造校验失败响应
func Rejected[T any](message string) Envelope[T] {
	return failedIn[T](StateRejected, message)
}

func failedIn[T any](state State, message string) Envelope[T] {
	return Envelope[T]{
		Success: false,
		Message: nonEmpty(message, UnknownErrorMessage),
		state:   state,
	}
}

// State 返回该响应对应的终态（不参与序列化）
func (e Envelope[T]) State() State {
	return e.state
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
