package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/app"
)

var rulesForce bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "管理筛选规则",
}

var rulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成内置示例规则文件",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := rulesOptions()
		opts.Force = rulesForce
		return app.RunRulesInit(cmd.Context(), opts)
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前生效的规则",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunRulesShow(cmd.Context(), rulesOptions(), cmd.OutOrStdout())
	},
}

func init() {
	rulesInitCmd.Flags().BoolVar(&rulesForce, "force", false, "覆盖已有规则文件")
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesShowCmd)
}
