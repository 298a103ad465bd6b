package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotIdle 任务只能从 idle 状态发起。
	ErrNotIdle = errors.New("任务已在进行中")
	// ErrEmptyWorklist 筛选后没有可举报的弹幕。
	ErrEmptyWorklist = errors.New("没有符合举报条件的弹幕")
	// ErrDeclined 用户在确认环节取消。
	ErrDeclined = errors.New("用户取消了举报操作")
	// ErrAutoPaused 重试额度耗尽触发熔断，队列自动暂停等待操作者。
	ErrAutoPaused = errors.New("重试次数耗尽，已自动暂停")
)

// Submitter 提交单条举报。返回 nil 表示远端受理；*RateLimitedError 表示
// 频率限制可重试；*SemanticError 表示业务拒绝；其余错误视为网络层失败。
type Submitter func(ctx context.Context, item WorkItem) error

type Options struct {
	Submit  Submitter
	Notify  Notifier
	Confirm func(total int) bool // 为 nil 时视为同意

	// Sleep 为 nil 时使用真实计时器；测试里注入假等待。
	Sleep func(ctx context.Context, d time.Duration) error

	BaseCooldown time.Duration // 条目间隔，默认 2s
	RetryStep    time.Duration // 每次重试递增量，默认 2s
	FailCooldown time.Duration // 业务拒绝后的等待，默认 3s
	PausePoll    time.Duration // 暂停轮询间隔，默认 500ms
	MaxRetries   int           // 频率限制重试上限，默认 5

	ReasonText func(code int) string
}

// Queue 串行提交举报，同一时刻最多一个在途请求，游标只前进。
type Queue struct {
	mu     sync.Mutex
	state  State
	items  []WorkItem
	cursor int

	submit   Submitter
	notify   Notifier
	confirm  func(int) bool
	sleep    func(context.Context, time.Duration) error
	inflight *semaphore.Weighted

	baseCooldown time.Duration
	retryStep    time.Duration
	failCooldown time.Duration
	pausePoll    time.Duration
	maxRetries   int
	reasonText   func(int) string
}

func NewQueue(opts Options) *Queue {
	q := &Queue{
		state:        StateIdle,
		submit:       opts.Submit,
		notify:       opts.Notify,
		confirm:      opts.Confirm,
		sleep:        opts.Sleep,
		inflight:     semaphore.NewWeighted(1),
		baseCooldown: opts.BaseCooldown,
		retryStep:    opts.RetryStep,
		failCooldown: opts.FailCooldown,
		pausePoll:    opts.PausePoll,
		maxRetries:   opts.MaxRetries,
		reasonText:   opts.ReasonText,
	}
	if q.notify == nil {
		q.notify = noopNotifier{}
	}
	if q.sleep == nil {
		q.sleep = sleepCtx
	}
	if q.baseCooldown <= 0 {
		q.baseCooldown = 2 * time.Second
	}
	if q.retryStep <= 0 {
		q.retryStep = 2 * time.Second
	}
	if q.failCooldown <= 0 {
		q.failCooldown = 3 * time.Second
	}
	if q.pausePoll <= 0 {
		q.pausePoll = 500 * time.Millisecond
	}
	if q.maxRetries <= 0 {
		q.maxRetries = 5
	}
	if q.reasonText == nil {
		q.reasonText = strconv.Itoa
	}
	return q
}

func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Progress 返回当前游标与工作列表长度。
func (q *Queue) Progress() (cursor, total int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor, len(q.items)
}

// BeginFetch 标记进入拉取阶段；只能从 idle 发起。
func (q *Queue) BeginFetch() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state != StateIdle {
		return ErrNotIdle
	}
	q.state = StateFetching
	return nil
}

// Abort 在启动失败时回到 idle，清空列表与游标。
func (q *Queue) Abort() {
	q.mu.Lock()
	q.state = StateIdle
	q.items = nil
	q.cursor = 0
	q.mu.Unlock()
}

// Start 装入工作列表并进入 running。空列表或用户取消都会回到 idle。
func (q *Queue) Start(items []WorkItem) error {
	q.mu.Lock()
	switch q.state {
	case StateIdle:
		q.state = StateFetching
	case StateFetching:
	default:
		q.mu.Unlock()
		return ErrNotIdle
	}
	q.mu.Unlock()

	if len(items) == 0 {
		q.Abort()
		q.notify.Log(LevelWarn, "在所有弹幕中未找到符合举报条件的弹幕。")
		return ErrEmptyWorklist
	}
	q.notify.Log(LevelInfo, fmt.Sprintf("筛选完毕，共找到 %d 条待举报弹幕。", len(items)))
	if q.confirm != nil && !q.confirm(len(items)) {
		q.Abort()
		q.notify.Log(LevelWarn, "用户取消了举报操作。")
		return ErrDeclined
	}

	q.mu.Lock()
	q.items = items
	q.cursor = 0
	q.state = StateRunning
	q.mu.Unlock()
	return nil
}

// Pause 只在 running 时生效。在途条目保留队列位置，重试计数作废。
func (q *Queue) Pause() bool {
	q.mu.Lock()
	if q.state != StateRunning {
		q.mu.Unlock()
		return false
	}
	q.state = StatePaused
	q.mu.Unlock()
	q.notify.Log(LevelWarn, "举报已暂停。")
	return true
}

// Resume 只在 paused 时生效，从原游标继续，当前条目从头重试。
func (q *Queue) Resume() bool {
	q.mu.Lock()
	if q.state != StatePaused {
		q.mu.Unlock()
		return false
	}
	q.state = StateRunning
	q.mu.Unlock()
	q.notify.Log(LevelWarn, "举报已恢复。")
	return true
}

// Reset 无条件回到 idle。与在途提交互斥，只能由操作者显式调用。
func (q *Queue) Reset(ctx context.Context) error {
	if err := q.inflight.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.inflight.Release(1)
	q.mu.Lock()
	q.state = StateIdle
	q.items = nil
	q.cursor = 0
	q.mu.Unlock()
	q.notify.Progress(0, 0)
	q.notify.Log(LevelInfo, "任务已重置。")
	return nil
}

// Run 驱动提交循环直到完成、熔断或 ctx 取消。暂停期间只做本地轮询，
// 不发任何网络请求；熔断时返回 ErrAutoPaused 把控制权交还操作者。
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.mu.Lock()
		st := q.state
		i, n := q.cursor, len(q.items)
		q.mu.Unlock()

		switch st {
		case StatePaused:
			if err := q.sleep(ctx, q.pausePoll); err != nil {
				return err
			}
			continue
		case StateRunning:
		default:
			return nil
		}

		if i >= n {
			q.mu.Lock()
			finished := q.state == StateRunning
			if finished {
				q.state = StateDone
			}
			q.mu.Unlock()
			if finished {
				q.notify.Log(LevelSuccess, fmt.Sprintf("全部任务完成！共处理 %d 条弹幕。", n))
			}
			return nil
		}

		item := q.items[i]
		q.notify.Progress(i+1, n)
		q.notify.Log(LevelInfo, fmt.Sprintf("正在举报: %q (理由: %s)", item.Text, q.reasonText(item.Reason)))

		res, err := q.submitItem(ctx, item)
		if res == itemAdvance {
			q.mu.Lock()
			q.cursor++
			q.mu.Unlock()
		}
		if err != nil {
			return err
		}
		if res == itemAutoPaused {
			return ErrAutoPaused
		}
	}
}

type itemResult int

const (
	itemKept itemResult = iota // 条目留在原位（暂停打断）
	itemAdvance
	itemAutoPaused
)

func (q *Queue) submitItem(ctx context.Context, item WorkItem) (itemResult, error) {
	retries := 0
	cooldown := time.Duration(0)
	for {
		if q.State() == StatePaused {
			return itemKept, nil
		}
		if err := q.inflight.Acquire(ctx, 1); err != nil {
			return itemKept, err
		}
		err := q.submit(ctx, item)
		q.inflight.Release(1)

		var rate *RateLimitedError
		var sem *SemanticError
		switch {
		case err == nil:
			q.notify.Log(LevelSuccess, fmt.Sprintf("成功: %q", item.Text))
			if sErr := q.sleep(ctx, q.baseCooldown); sErr != nil {
				return itemAdvance, sErr
			}
			return itemAdvance, nil

		case errors.As(err, &rate):
			retries++
			cooldown += q.retryStep
			q.notify.Log(LevelWarn, fmt.Sprintf("操作频繁: %q，将在 %.0fs 后重试 (%d/%d)...",
				item.Text, cooldown.Seconds(), retries, q.maxRetries))
			if sErr := q.sleep(ctx, cooldown); sErr != nil {
				return itemKept, sErr
			}
			if q.State() == StatePaused {
				return itemKept, nil
			}
			if retries >= q.maxRetries {
				q.notify.Log(LevelError, fmt.Sprintf("重试 %d 次后依然操作频繁，自动暂停举报。请稍后手动继续。", q.maxRetries))
				q.forcePause()
				return itemAutoPaused, nil
			}

		case errors.As(err, &sem):
			q.notify.Log(LevelError, fmt.Sprintf("失败: %q - %s", item.Text, sem.Message))
			if sErr := q.sleep(ctx, q.failCooldown); sErr != nil {
				return itemAdvance, sErr
			}
			return itemAdvance, nil

		default:
			q.notify.Log(LevelError, fmt.Sprintf("网络错误: %q - %v", item.Text, err))
			return itemAdvance, nil
		}
	}
}

func (q *Queue) forcePause() {
	q.mu.Lock()
	if q.state == StateRunning {
		q.state = StatePaused
	}
	q.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopNotifier struct{}

func (noopNotifier) Log(Level, string)  {}
func (noopNotifier) Progress(int, int) {}
