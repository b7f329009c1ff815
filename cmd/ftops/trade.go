package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xd/ftops/internal"
	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/launcher"
)

var (
	tradeConfigFile  string
	tradeExecutable  string
	tradeLiveConfirm bool
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "生成或复用交易配置后前台启动交易进程",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := internal.RunTrade(cmd.Context(), internal.RunTradeOptions{
			ConfigPath:  tradeConfigFile,
			Executable:  tradeExecutable,
			LiveConfirm: tradeLiveConfirm,
		})
		if err != nil {
			return err
		}
		// 退出码与子进程保持一致
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	tradeCmd.Flags().StringVarP(&tradeConfigFile, "config", "c", config.DefaultPath, "配置文件路径，不存在时生成")
	tradeCmd.Flags().StringVar(&tradeExecutable, "executable", launcher.DefaultExecutable, "外部交易程序")
	tradeCmd.Flags().BoolVar(&tradeLiveConfirm, "live-confirm", false, "跳过实盘模式的交互确认")
	rootCmd.AddCommand(tradeCmd)
}
