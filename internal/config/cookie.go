package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/util"
)

const cookieEnvName = "BILI_COOKIE"

var ErrCookieNotConfigured = errors.New("bili_cookie_not_configured")

// LoadCookie 读取保存在 .env 里的登录 Cookie（包含 SESSDATA 与 bili_jct）。
func LoadCookie() (string, error) {
	p, err := util.DefaultEnvPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrCookieNotConfigured
		}
		return "", fmt.Errorf("读取 .env 失败: %w", err)
	}
	for _, raw := range strings.Split(string(b), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) != cookieEnvName {
			continue
		}
		value := strings.TrimSpace(v)
		value = strings.Trim(value, `"'`)
		if value == "" {
			return "", ErrCookieNotConfigured
		}
		return value, nil
	}
	return "", ErrCookieNotConfigured
}

func SaveCookie(cookie string) error {
	p, err := util.DefaultEnvPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	line := fmt.Sprintf("%s=%s", cookieEnvName, cookie)

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.WriteFile(p, []byte(line+"\n"), 0o600)
		}
		return fmt.Errorf("读取 .env 失败: %w", err)
	}

	lines := strings.Split(string(b), "\n")
	replaced := false
	for i, raw := range lines {
		txt := strings.TrimSpace(raw)
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		k, _, ok := strings.Cut(txt, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == cookieEnvName {
			lines[i] = line
			replaced = true
		}
	}
	if !replaced {
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
			lines = append(lines, "")
		}
		lines = append(lines, line)
	}
	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		return fmt.Errorf("写 .env 失败: %w", err)
	}
	return nil
}

// CSRFFromCookie 从 Cookie 中取出 bili_jct，举报接口要求携带该防伪 token。
func CSRFFromCookie(cookie string) string {
	for _, part := range strings.Split(cookie, ";") {
		kv := strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(kv, "bili_jct="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
