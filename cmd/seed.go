package cmd

import (
	"context"
	"fmt"
	"os"

	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/service"
	"skill_portal_backend/pkg/database"
	"skill_portal_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "创建管理员账号，可选导入技能题库",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("skills-file", "", "技能与题目 JSON 文件")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx := context.Background()
	users := service.NewUserService(repository.NewUserRepository(db))
	admin, created, err := users.EnsureAdmin(ctx, cfg.Seed.AdminUser, cfg.Seed.AdminPass)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	logger.Log.Info("Admin user ready", zap.String("username", admin.Username), zap.Bool("created", created))

	file, _ := cmd.Flags().GetString("skills-file")
	if file == "" {
		return nil
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	bundles, err := service.DecodeSkillBundles(f)
	if err != nil {
		return err
	}
	skills, questions, err := service.ImportSkills(ctx, db, bundles)
	if err != nil {
		return fmt.Errorf("import skills: %w", err)
	}
	logger.Log.Info("Skills imported", zap.Int("skills", skills), zap.Int("questions", questions))
	return nil
}
