package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/app"
)

var (
	cfgPath     string
	rulesPath   string
	verbose     bool
	logFile     string
	yes         bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "bilibili-danmaku-report",
	Short: "批量举报 B 站视频弹幕",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "规则文件路径")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "输出 NDJSON 详细日志")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "日志文件路径")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "跳过举报前确认")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "显示版本信息")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(versionCmd)
}

func rulesOptions() app.RulesOptions {
	return app.RulesOptions{ConfigPath: cfgPath, RulesPath: rulesPath}
}
