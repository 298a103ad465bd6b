package rules

import (
	"regexp"
	"strings"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/dm"
	"github.com/MUKAPP/bilibili-danmaku-report/internal/report"
)

var regexForm = regexp.MustCompile(`^/(.*)/([a-z]*)$`)

type matcher func(text string) bool

// Filter 按解码顺序筛选弹幕：首个命中的规则/关键词决定举报理由，
// 同一 dmid 只取一次。纯函数，结果顺序与输入一致。
func Filter(records []dm.Record, rs []Rule, warnf func(format string, args ...any)) []report.WorkItem {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	matchers := make([][]matcher, len(rs))
	for i, r := range rs {
		matchers[i] = make([]matcher, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			matchers[i] = append(matchers[i], compileKeyword(kw, warnf))
		}
	}

	claimed := make(map[string]struct{})
	var out []report.WorkItem
	for _, rec := range records {
		text := strings.TrimSpace(rec.Content)
		if text == "" || rec.IDStr == "" {
			continue
		}
		if _, ok := claimed[rec.IDStr]; ok {
			continue
		}
	scan:
		for i, r := range rs {
			for _, m := range matchers[i] {
				if m != nil && m(text) {
					out = append(out, report.WorkItem{DMID: rec.IDStr, Reason: r.Reason, Text: text})
					claimed[rec.IDStr] = struct{}{}
					break scan
				}
			}
		}
	}
	return out
}

// compileKeyword 把关键词编译成匹配函数。/正文/标志 形式按正则处理，
// 无效正则告警后按不命中处理，绝不中断整轮筛选。
func compileKeyword(kw string, warnf func(string, ...any)) matcher {
	if strings.HasPrefix(kw, "/") && strings.LastIndex(kw, "/") > 0 {
		m := regexForm.FindStringSubmatch(kw)
		if m == nil {
			warnf("无效的正则表达式: %q", kw)
			return nil
		}
		expr := m[1]
		var flags strings.Builder
		for _, f := range m[2] {
			switch f {
			case 'i', 's', 'm':
				flags.WriteRune(f)
				// g/y/u/v 是 JS 专有标志，对单次匹配无影响
			}
		}
		if flags.Len() > 0 {
			expr = "(?" + flags.String() + ")" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			warnf("无效的正则表达式: %q: %v", kw, err)
			return nil
		}
		return re.MatchString
	}
	if kw == "" {
		return nil
	}
	return func(text string) bool { return strings.Contains(text, kw) }
}
