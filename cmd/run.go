package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/app"
)

var (
	runAid int64
	runCid int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "拉取弹幕、按规则筛选并提交举报",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RunOptions{
			ConfigPath: cfgPath,
			RulesPath:  rulesPath,
			Verbose:    verbose,
			LogFile:    logFile,
			Yes:        yes,
			Aid:        runAid,
			Cid:        runCid,
		}
		return app.RunReport(cmd.Context(), opts)
	},
}

func init() {
	runCmd.Flags().Int64Var(&runAid, "aid", 0, "视频 aid")
	runCmd.Flags().Int64Var(&runCid, "cid", 0, "视频 cid")
	_ = runCmd.MarkFlagRequired("aid")
	_ = runCmd.MarkFlagRequired("cid")
}
