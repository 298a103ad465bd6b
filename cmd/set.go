package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/app"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "设置配置",
}

var setCookieCmd = &cobra.Command{
	Use:   "cookie <BILI_COOKIE>",
	Short: "设置 B 站 Cookie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunSetCookie(cmd.Context(), args[0])
	},
}

func init() {
	setCmd.AddCommand(setCookieCmd)
}
