// Package report 实现顺序提交举报的有状态队列。
package report

// State 是队列的运行状态，只由队列自身的控制操作变更。
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateDone     State = "done"
)

// Level 是通知器的日志级别。
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notifier 把进度和日志交给外部展示层。
type Notifier interface {
	Log(level Level, msg string)
	Progress(current, total int)
}

// WorkItem 是一条待举报的弹幕及匹配到的举报理由。
type WorkItem struct {
	DMID   string
	Reason int
	Text   string
}

// RateLimitedError 表示远端以“操作过于频繁”拒绝，可退避重试。
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string { return e.Message }

// SemanticError 表示远端受理了请求但按业务规则拒绝（如已举报），不应重试。
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string { return e.Message }
