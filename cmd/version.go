package cmd

import (
	"fmt"
	"io"
)

// 构建时通过 -ldflags 注入。
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func versionText() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "bilibili-danmaku-report 版本：%s\n", versionText())
}
