package cmd

import (
	"skill_portal_backend/internal/config"
	"skill_portal_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "skill-portal",
	Short:         "Skill assessment portal backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "配置文件路径（默认查找 configs/config.yaml）")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig 读取配置并初始化日志
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(file)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg.Server.Mode)
	return cfg, nil
}
