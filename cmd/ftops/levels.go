package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/service"
)

var (
	levelsConfigFile string
	levelsJSON       bool

	levelPair         string
	levelValue        float64
	levelDirection    string
	levelConfirmClose bool
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "命令行管理价格水平",
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出启用中的价格水平，可按交易对过滤",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openLevelService()
		if err != nil {
			return err
		}

		levels, err := svc.List(cmd.Context(), levelPair)
		if err != nil {
			return err
		}

		if levelsJSON {
			return json.NewEncoder(os.Stdout).Encode(levels)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"ID", "Pair", "Level", "Direction", "Confirm Close", "Created At"})
		for _, m := range levels {
			t.AppendRow(table.Row{
				m.ID, m.Pair, m.Level, m.Direction, m.ConfirmClose,
				m.CreatedAt.Format(time.DateTime),
			})
		}
		t.Render()
		return nil
	},
}

var levelsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "新增价格水平",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openLevelService()
		if err != nil {
			return err
		}

		m, err := svc.Add(cmd.Context(), levelPair, levelValue, levelDirection, levelConfirmClose)
		if err != nil {
			return err
		}

		fmt.Printf("added price level #%d: %s @ %v (%s)\n", m.ID, m.Pair, m.Level, m.Direction)
		return nil
	},
}

var levelsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "更新价格水平，只修改显式给出的字段",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openLevelService()
		if err != nil {
			return err
		}

		var params service.UpdateParams
		if cmd.Flags().Changed("level") {
			params.Level = &levelValue
		}
		if cmd.Flags().Changed("direction") {
			params.Direction = &levelDirection
		}
		if cmd.Flags().Changed("confirm-close") {
			params.ConfirmClose = &levelConfirmClose
		}

		m, err := svc.Update(cmd.Context(), cast.ToUint(args[0]), params)
		if err != nil {
			return err
		}

		fmt.Printf("updated price level #%d: %s @ %v (%s)\n", m.ID, m.Pair, m.Level, m.Direction)
		return nil
	},
}

var levelsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除价格水平",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openLevelService()
		if err != nil {
			return err
		}

		if err := svc.Delete(cmd.Context(), cast.ToUint(args[0])); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

var levelsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "停用价格水平但保留历史记录",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openLevelService()
		if err != nil {
			return err
		}

		if err := svc.Deactivate(cmd.Context(), cast.ToUint(args[0])); err != nil {
			return err
		}
		fmt.Println("deactivated")
		return nil
	},
}

// openLevelService 从交易配置定位数据库并构造服务
func openLevelService() (*service.LevelService, error) {
	conf, err := config.Load(levelsConfigFile)
	if err != nil {
		return nil, err
	}
	dbPath, err := conf.SQLitePath()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(models.PriceLevel{}); err != nil {
		return nil, fmt.Errorf("database auto migrate failed: %w", err)
	}

	return service.NewLevelService(db, zap.NewNop()), nil
}

func init() {
	levelsCmd.PersistentFlags().StringVarP(&levelsConfigFile, "config", "c", config.DefaultPath, "配置文件路径")
	levelsCmd.PersistentFlags().BoolVar(&levelsJSON, "json", false, "以JSON输出")

	levelsListCmd.Flags().StringVar(&levelPair, "pair", "", "按交易对过滤")

	levelsAddCmd.Flags().StringVar(&levelPair, "pair", "", "交易对，例如 BTC/USDT")
	levelsAddCmd.Flags().Float64Var(&levelValue, "level", 0, "价格水平")
	levelsAddCmd.Flags().StringVar(&levelDirection, "direction", "both", "方向: up/down/both/wick_up/wick_down/wick_both")
	levelsAddCmd.Flags().BoolVar(&levelConfirmClose, "confirm-close", false, "需要收盘确认")

	levelsUpdateCmd.Flags().Float64Var(&levelValue, "level", 0, "价格水平")
	levelsUpdateCmd.Flags().StringVar(&levelDirection, "direction", "", "方向")
	levelsUpdateCmd.Flags().BoolVar(&levelConfirmClose, "confirm-close", false, "需要收盘确认")

	levelsCmd.AddCommand(levelsListCmd, levelsAddCmd, levelsUpdateCmd, levelsDeleteCmd, levelsDeactivateCmd)
	rootCmd.AddCommand(levelsCmd)
}
