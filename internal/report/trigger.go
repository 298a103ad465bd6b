package report

import "sync"

// Trigger 是环境就绪信号：只生效一次，重复触发是空操作。
type Trigger struct {
	once sync.Once
	fn   func()
}

func NewTrigger(fn func()) *Trigger {
	return &Trigger{fn: fn}
}

func (t *Trigger) Fire() {
	if t == nil || t.fn == nil {
		return
	}
	t.once.Do(t.fn)
}
