package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/util"
)

type Config struct {
	API   APIConfig   `yaml:"api"`
	Rules RulesConfig `yaml:"rules"`
	Run   RunConfig   `yaml:"run"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RulesConfig struct {
	Path string `yaml:"path"`
}

type RunConfig struct {
	BaseCooldownMs int `yaml:"base_cooldown_ms"`
	FailCooldownMs int `yaml:"fail_cooldown_ms"`
	PausePollMs    int `yaml:"pause_poll_ms"`
	MaxRetries     int `yaml:"max_retries"`
	MaxSegments    int `yaml:"max_segments"`
}

func Default() (Config, error) {
	rulesPath, err := util.DefaultRulesPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		API:   APIConfig{BaseURL: "https://api.bilibili.com"},
		Rules: RulesConfig{Path: rulesPath},
		Run: RunConfig{
			BaseCooldownMs: 2000,
			FailCooldownMs: 3000,
			PausePollMs:    500,
			MaxRetries:     5,
			MaxSegments:    19,
		},
	}, nil
}

func ResolvePath(input string) (string, error) {
	if input != "" {
		return input, nil
	}
	return util.DefaultConfigPath()
}

func LoadOrInit(path string) (Config, error) {
	def, err := Default()
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("读取配置失败: %w", err)
		}
		if err := Save(path, def); err != nil {
			return Config{}, err
		}
		return def, nil
	}
	cfg := def
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = def.Rules.Path
	}
	if cfg.Run.BaseCooldownMs <= 0 {
		cfg.Run.BaseCooldownMs = def.Run.BaseCooldownMs
	}
	if cfg.Run.FailCooldownMs <= 0 {
		cfg.Run.FailCooldownMs = def.Run.FailCooldownMs
	}
	if cfg.Run.PausePollMs <= 0 {
		cfg.Run.PausePollMs = def.Run.PausePollMs
	}
	if cfg.Run.MaxRetries <= 0 {
		cfg.Run.MaxRetries = def.Run.MaxRetries
	}
	if cfg.Run.MaxSegments <= 0 {
		cfg.Run.MaxSegments = def.Run.MaxSegments
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("写配置失败: %w", err)
	}
	return nil
}
