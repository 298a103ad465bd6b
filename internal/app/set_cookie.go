package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/config"
)

func RunSetCookie(_ context.Context, cookie string) error {
	if strings.TrimSpace(cookie) == "" {
		return fmt.Errorf("Cookie 不能为空")
	}
	if config.CSRFFromCookie(cookie) == "" {
		return fmt.Errorf("Cookie 中缺少 bili_jct 字段，请从浏览器完整复制")
	}
	return config.SaveCookie(cookie)
}
