package main

import (
	"github.com/spf13/cobra"

	"github.com/xd/ftops/internal"
	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/launcher"
)

var (
	webConfigFile     string
	webStrategy       string
	webStrategyConfig string
	webExecutable     string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "启动价格水平管理Web服务，可选托管一个后台策略进程",
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.RunWeb(cmd.Context(), internal.RunWebOptions{
			ConfigPath:     webConfigFile,
			Strategy:       webStrategy,
			StrategyConfig: webStrategyConfig,
			Executable:     webExecutable,
		})
	},
}

func init() {
	webCmd.Flags().StringVarP(&webConfigFile, "config", "c", config.DefaultPath, "配置文件路径")
	webCmd.Flags().StringVarP(&webStrategy, "strategy", "s", "", "需要后台启动的策略名称")
	webCmd.Flags().StringVarP(&webStrategyConfig, "strategy-config", "f", "", "策略进程的独立配置文件，需要同时指定 -s")
	webCmd.Flags().StringVar(&webExecutable, "executable", launcher.DefaultExecutable, "外部交易程序")
	rootCmd.AddCommand(webCmd)
}
