package cmd

import (
	"skill_portal_backend/internal/app"
	"skill_portal_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run()
}
