package app

import (
	"context"
	"strings"
	"testing"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/config"
)

func TestRunSetCookie(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := RunSetCookie(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty cookie")
	}
	err := RunSetCookie(context.Background(), "SESSDATA=abc")
	if err == nil || !strings.Contains(err.Error(), "bili_jct") {
		t.Fatalf("expected bili_jct error, got %v", err)
	}

	cookie := "SESSDATA=abc; bili_jct=token123"
	if err := RunSetCookie(context.Background(), cookie); err != nil {
		t.Fatalf("RunSetCookie error: %v", err)
	}
	got, err := config.LoadCookie()
	if err != nil {
		t.Fatalf("LoadCookie error: %v", err)
	}
	if got != cookie {
		t.Fatalf("cookie round trip: got %q", got)
	}
}
