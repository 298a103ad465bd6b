// Package rules 管理举报规则并对弹幕做规则匹配。
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rule 是一条有序规则：任一关键词命中即按 Reason 举报。
// 关键词是字面子串，或形如 /正文/标志 的正则表达式。
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Reason   int      `yaml:"reason"`
}

// reasonText 是举报理由的固定枚举。
var reasonText = map[int]string{
	1:  "违法违禁",
	2:  "色情低俗",
	3:  "赌博诈骗",
	4:  "人身攻击",
	5:  "侵犯隐私",
	6:  "垃圾广告",
	7:  "引战",
	8:  "剧透",
	9:  "恶意刷屏",
	10: "视频无关",
	11: "其它",
	12: "青少年不良信息",
	13: "违法信息外链",
}

func ReasonText(code int) string {
	if t, ok := reasonText[code]; ok {
		return t
	}
	return "未知"
}

// ValidReason 判断理由码是否在固定枚举内。
func ValidReason(code int) bool {
	_, ok := reasonText[code]
	return ok
}

// Default 返回内置的示例规则。
func Default() []Rule {
	return []Rule{
		{Keywords: []string{"停止氪金", "我曾三度调香", "忠诚！", "散艾", "散草"}, Reason: 9},
		{Keywords: []string{"勇者大人", "散兵夫人", "皮套"}, Reason: 7},
		{Keywords: []string{"星怒", "星努", "兴努"}, Reason: 2},
	}
}

// Load 读取规则文件；文件不存在时回退内置规则。
func Load(path string) ([]Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("读取规则失败: %w", err)
	}
	var rs []Rule
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("解析规则失败: %w", err)
	}
	out := rs[:0]
	for _, r := range rs {
		if len(r.Keywords) == 0 {
			continue
		}
		if !ValidReason(r.Reason) {
			return nil, fmt.Errorf("非法的举报理由: %d", r.Reason)
		}
		out = append(out, r)
	}
	return out, nil
}

// Save 序列化规则列表，落盘形状与 Rule 一致。
func Save(path string, rs []Rule) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建规则目录失败: %w", err)
	}
	b, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("序列化规则失败: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("写规则失败: %w", err)
	}
	return nil
}
