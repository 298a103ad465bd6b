package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCookieNotConfigured(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := LoadCookie(); !errors.Is(err, ErrCookieNotConfigured) {
		t.Fatalf("expected ErrCookieNotConfigured, got %v", err)
	}
}

func TestSaveAndLoadCookie(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cookie := "SESSDATA=abc123; bili_jct=tok456"
	if err := SaveCookie(cookie); err != nil {
		t.Fatalf("SaveCookie error: %v", err)
	}
	got, err := LoadCookie()
	if err != nil {
		t.Fatalf("LoadCookie error: %v", err)
	}
	if got != cookie {
		t.Fatalf("got=%q want=%q", got, cookie)
	}

	// 覆盖已有值，保留其它行。
	envPath := filepath.Join(home, ".bilibili-danmaku-report", ".env")
	b, _ := os.ReadFile(envPath)
	if err := os.WriteFile(envPath, append([]byte("# note\nOTHER=1\n"), b...), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := SaveCookie("SESSDATA=new; bili_jct=new"); err != nil {
		t.Fatalf("SaveCookie overwrite error: %v", err)
	}
	got, err = LoadCookie()
	if err != nil {
		t.Fatalf("LoadCookie after overwrite: %v", err)
	}
	if got != "SESSDATA=new; bili_jct=new" {
		t.Fatalf("got=%q", got)
	}
	b, _ = os.ReadFile(envPath)
	if !strings.Contains(string(b), "OTHER=1") {
		t.Fatalf("other lines lost: %q", string(b))
	}
}

func TestCSRFFromCookie(t *testing.T) {
	cases := []struct {
		cookie string
		want   string
	}{
		{"SESSDATA=a; bili_jct=tok; buvid3=x", "tok"},
		{"bili_jct=only", "only"},
		{"SESSDATA=a", ""},
		{"", ""},
		{" bili_jct = spaced", ""},
	}
	for _, c := range cases {
		if got := CSRFFromCookie(c.cookie); got != c.want {
			t.Fatalf("CSRFFromCookie(%q)=%q want=%q", c.cookie, got, c.want)
		}
	}
}
