package rules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/dm"
)

func mkRecord(id, content string) dm.Record {
	return dm.Record{IDStr: id, Content: content}
}

func TestFilterEndToEndScenario(t *testing.T) {
	records := []dm.Record{
		mkRecord("a", "spamspam"),
		mkRecord("b", "hello"),
		mkRecord("c", "spamspam"),
	}
	rs := []Rule{{Keywords: []string{"spam"}, Reason: 9}}

	got := Filter(records, rs, nil)
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
	if got[0].DMID != "a" || got[0].Reason != 9 || got[1].DMID != "c" || got[1].Reason != 9 {
		t.Fatalf("got=%+v", got)
	}

	// 幂等：重跑结果完全一致。
	again := Filter(records, rs, nil)
	if fmt.Sprint(again) != fmt.Sprint(got) {
		t.Fatalf("not idempotent: %v vs %v", again, got)
	}
}

func TestFilterRulePrecedence(t *testing.T) {
	records := []dm.Record{mkRecord("x", "皮套勇者大人星怒")}
	rs := []Rule{
		{Keywords: []string{"不存在", "勇者大人"}, Reason: 7},
		{Keywords: []string{"星怒"}, Reason: 2},
	}
	got := Filter(records, rs, nil)
	if len(got) != 1 || got[0].Reason != 7 {
		t.Fatalf("got=%+v (第一条命中规则优先)", got)
	}
}

func TestFilterSkipsAndDedup(t *testing.T) {
	records := []dm.Record{
		mkRecord("", "spam 没有标识"),
		mkRecord("w", "   \t  "),
		mkRecord("d", "spam"),
		mkRecord("d", "spam 重复标识"),
	}
	rs := []Rule{{Keywords: []string{"spam"}, Reason: 9}}
	got := Filter(records, rs, nil)
	if len(got) != 1 || got[0].DMID != "d" || got[0].Text != "spam" {
		t.Fatalf("got=%+v", got)
	}
}

func TestFilterTrimsContentForMatch(t *testing.T) {
	records := []dm.Record{mkRecord("a", "  散艾  ")}
	got := Filter(records, Default(), nil)
	if len(got) != 1 || got[0].Reason != 9 || got[0].Text != "散艾" {
		t.Fatalf("got=%+v", got)
	}
}

func TestFilterRegexKeywords(t *testing.T) {
	records := []dm.Record{
		mkRecord("a", "哈哈哈哈哈哈哈"),
		mkRecord("b", "HELLO world"),
		mkRecord("c", "正常弹幕"),
	}
	rs := []Rule{
		{Keywords: []string{`/^(.)(.)\1{5,}$/`}, Reason: 9}, // 反向引用不被支持，按不命中处理
		{Keywords: []string{`/^(.){6,}$/`}, Reason: 9},
		{Keywords: []string{`/hello/i`}, Reason: 6},
	}

	var warns []string
	warnf := func(format string, args ...any) { warns = append(warns, fmt.Sprintf(format, args...)) }
	got := Filter(records, rs, warnf)

	if len(warns) != 1 || !strings.Contains(warns[0], "无效的正则表达式") {
		t.Fatalf("warns=%v", warns)
	}
	if len(got) != 2 {
		t.Fatalf("got=%+v", got)
	}
	if got[0].DMID != "a" || got[0].Reason != 9 {
		t.Fatalf("got[0]=%+v", got[0])
	}
	if got[1].DMID != "b" || got[1].Reason != 9 {
		// /^(.){6,}$/ 比 /hello/i 先命中
		t.Fatalf("got[1]=%+v", got[1])
	}
}

func TestFilterLiteralIsCaseSensitive(t *testing.T) {
	records := []dm.Record{mkRecord("a", "Spam")}
	got := Filter(records, []Rule{{Keywords: []string{"spam"}, Reason: 9}}, nil)
	if len(got) != 0 {
		t.Fatalf("got=%+v (字面匹配区分大小写)", got)
	}
}

func TestFilterNoMatchNotClaimed(t *testing.T) {
	records := []dm.Record{
		mkRecord("a", "hello"),
		mkRecord("a", "spam"),
	}
	rs := []Rule{{Keywords: []string{"spam"}, Reason: 9}}
	got := Filter(records, rs, nil)
	// 未命中不占用 dmid，后续同 id 弹幕仍可命中。
	if len(got) != 1 || got[0].DMID != "a" {
		t.Fatalf("got=%+v", got)
	}
}
