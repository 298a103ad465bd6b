package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReasonText(t *testing.T) {
	if got := ReasonText(9); got != "恶意刷屏" {
		t.Fatalf("ReasonText(9)=%q", got)
	}
	if got := ReasonText(13); got != "违法信息外链" {
		t.Fatalf("ReasonText(13)=%q", got)
	}
	if got := ReasonText(99); got != "未知" {
		t.Fatalf("ReasonText(99)=%q", got)
	}
}

func TestLoadMissingFallsBackToDefault(t *testing.T) {
	rs, err := Load(filepath.Join(t.TempDir(), "rules.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	def := Default()
	if len(rs) != len(def) || rs[0].Reason != 9 || rs[1].Reason != 7 || rs[2].Reason != 2 {
		t.Fatalf("rs=%+v", rs)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "rules.yaml")
	want := []Rule{
		{Keywords: []string{"spam", "/重复{3,}/"}, Reason: 9},
		{Keywords: []string{"引战词"}, Reason: 7},
	}
	if err := Save(p, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(got) != 2 || got[0].Keywords[1] != "/重复{3,}/" || got[1].Reason != 7 {
		t.Fatalf("got=%+v", got)
	}
}

func TestLoadRejectsBadReason(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(p, []byte("- keywords: [x]\n  reason: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected invalid reason error")
	}
}

func TestLoadSkipsEmptyRules(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	content := "- keywords: []\n  reason: 9\n- keywords: [ok]\n  reason: 9\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(rs) != 1 || rs[0].Keywords[0] != "ok" {
		t.Fatalf("rs=%+v", rs)
	}
}

func TestLoadBadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(p, []byte("keywords: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}
