package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/config"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/rules"
)

type RulesOptions struct {
	ConfigPath string
	RulesPath  string
	Force      bool
}

func resolveRulesPath(opts RulesOptions) (string, error) {
	if opts.RulesPath != "" {
		return opts.RulesPath, nil
	}
	cfgPath, err := config.ResolvePath(opts.ConfigPath)
	if err != nil {
		return "", err
	}
	cfg, err := config.LoadOrInit(cfgPath)
	if err != nil {
		return "", err
	}
	return cfg.Rules.Path, nil
}

// RunRulesInit 写入内置示例规则；已有规则文件时需要 --force 覆盖。
func RunRulesInit(_ context.Context, opts RulesOptions) error {
	p, err := resolveRulesPath(opts)
	if err != nil {
		return err
	}
	if !opts.Force {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("规则文件已存在: %s（用 --force 覆盖）", p)
		}
	}
	if err := rules.Save(p, rules.Default()); err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

// RunRulesShow 打印当前生效的规则。
func RunRulesShow(_ context.Context, opts RulesOptions, w io.Writer) error {
	p, err := resolveRulesPath(opts)
	if err != nil {
		return err
	}
	rs, err := rules.Load(p)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("序列化规则失败: %w", err)
	}
	_, err = w.Write(b)
	return err
}
