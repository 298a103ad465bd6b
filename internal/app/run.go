package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/client"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/config"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/dm"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/report"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/rules"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/wbi"
)

type RunOptions struct {
	ConfigPath string
	RulesPath  string
	Verbose    bool
	LogFile    string
	Yes        bool
	Aid        int64
	Cid        int64

	// Control 是确认与恢复输入来源，为 nil 时使用标准输入。
	Control io.Reader
}

// RunReport 执行一次完整的批量举报任务：
// 签名取密钥 → 串行拉分段 → 规则筛选 → 队列串行提交。
func RunReport(ctx context.Context, opts RunOptions) error {
	cfgPath, err := config.ResolvePath(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrInit(cfgPath)
	if err != nil {
		return err
	}
	log, err := NewLogger(opts.Verbose, opts.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	if opts.Aid <= 0 || opts.Cid <= 0 {
		log.Log(report.LevelError, "错误：无法获取视频信息 (aid/cid)。")
		return fmt.Errorf("缺少 aid/cid")
	}
	cookie, err := loadCookieForRun()
	if err != nil {
		return err
	}
	csrf := config.CSRFFromCookie(cookie)
	if csrf == "" {
		log.Log(report.LevelError, "错误：无法获取 CSRF token，请确保 Cookie 中包含 bili_jct")
		return fmt.Errorf("Cookie 中缺少 bili_jct")
	}

	rulesPath := opts.RulesPath
	if rulesPath == "" {
		rulesPath = cfg.Rules.Path
	}
	rs, err := rules.Load(rulesPath)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		return fmt.Errorf("规则列表为空，先执行 rules init 生成示例规则")
	}

	api := client.New(cfg.API.BaseURL, cookie)
	api.SetTrace(func(ev client.TraceEvent) {
		log.Event("http_"+ev.Stage, map[string]any{
			"method":      ev.Method,
			"url":         ev.URL,
			"status_code": ev.StatusCode,
			"duration_ms": ev.DurationMs,
			"response":    ev.Response,
			"error":       ev.Error,
		})
	})
	signer := wbi.NewSigner(func(ctx context.Context) (string, string, error) {
		resp, err := api.Nav(ctx)
		if err != nil {
			return "", "", err
		}
		return resp.Data.WbiImg.ImgURL, resp.Data.WbiImg.SubURL, nil
	})

	control := opts.Control
	if control == nil {
		control = os.Stdin
	}
	stdin := bufio.NewScanner(control)

	q := report.NewQueue(report.Options{
		Submit: func(ctx context.Context, item report.WorkItem) error {
			err := api.Report(ctx, opts.Cid, item.DMID, item.Reason, csrf)
			var ae *client.APIError
			if errors.As(err, &ae) {
				if ae.RateLimited() {
					return &report.RateLimitedError{Message: ae.Message}
				}
				return &report.SemanticError{Message: ae.Message}
			}
			return err
		},
		Notify: log,
		Confirm: func(total int) bool {
			if opts.Yes {
				return true
			}
			log.Log(report.LevelInfo, fmt.Sprintf("即将举报 %d 条弹幕，输入 y 回车继续：", total))
			return stdin.Scan() && strings.EqualFold(strings.TrimSpace(stdin.Text()), "y")
		},
		BaseCooldown: time.Duration(cfg.Run.BaseCooldownMs) * time.Millisecond,
		RetryStep:    time.Duration(cfg.Run.BaseCooldownMs) * time.Millisecond,
		FailCooldown: time.Duration(cfg.Run.FailCooldownMs) * time.Millisecond,
		PausePoll:    time.Duration(cfg.Run.PausePollMs) * time.Millisecond,
		MaxRetries:   cfg.Run.MaxRetries,
		ReasonText:   rules.ReasonText,
	})

	var runErr error
	ready := report.NewTrigger(func() {
		runErr = runTask(ctx, q, api, signer, log, stdin, rs, cfg, opts)
	})
	ready.Fire()
	return runErr
}

func runTask(
	ctx context.Context,
	q *report.Queue,
	api *client.API,
	signer *wbi.Signer,
	log *Logger,
	stdin *bufio.Scanner,
	rs []rules.Rule,
	cfg config.Config,
	opts RunOptions,
) error {
	log.Log(report.LevelInfo, "开始任务...")
	if err := q.BeginFetch(); err != nil {
		return err
	}
	log.Log(report.LevelInfo, fmt.Sprintf("获取到视频信息: cid=%d", opts.Cid))

	log.Log(report.LevelInfo, "正在获取WBI密钥...")
	if err := signer.Refresh(ctx); err != nil {
		q.Abort()
		log.Log(report.LevelError, fmt.Sprintf("错误：%v", err))
		return err
	}
	log.Log(report.LevelSuccess, "密钥获取成功")

	fetcher := dm.NewFetcher(api, signer, log, cfg.Run.MaxSegments)
	records, err := fetcher.FetchAll(ctx, opts.Cid, opts.Aid)
	if err != nil {
		q.Abort()
		log.Log(report.LevelError, fmt.Sprintf("获取或解析弹幕列表失败: %v", err))
		return err
	}
	log.Log(report.LevelInfo, fmt.Sprintf("获取到 %d 条弹幕，开始筛选...", len(records)))

	items := rules.Filter(records, rs, func(format string, args ...any) {
		log.Log(report.LevelWarn, fmt.Sprintf(format, args...))
	})
	if err := q.Start(items); err != nil {
		return err
	}

	for {
		err := q.Run(ctx)
		if !errors.Is(err, report.ErrAutoPaused) {
			return err
		}
		log.Log(report.LevelInfo, "输入回车继续举报，输入 q 放弃：")
		if !stdin.Scan() || strings.EqualFold(strings.TrimSpace(stdin.Text()), "q") {
			return err
		}
		q.Resume()
	}
}

func loadCookieForRun() (string, error) {
	cookie, err := config.LoadCookie()
	if err != nil {
		if errors.Is(err, config.ErrCookieNotConfigured) {
			return "", fmt.Errorf("尚未配置 Cookie，需要执行\nbilibili-danmaku-report set cookie <BILI_COOKIE>")
		}
		return "", err
	}
	return cookie, nil
}
