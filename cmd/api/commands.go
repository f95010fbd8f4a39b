package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（AutoMigrate）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := setup()
			if err != nil {
				return err
			}
			defer closeLog()

			// 由下面显式执行，避免NewDB里再跑一次
			cfg.Database.AutoMigrate = false
			db, cleanup, err := provideDB(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := rdb.AutoMigrate(db); err != nil {
				return fmt.Errorf("数据库迁移失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "数据库迁移完成")
			return nil
		},
	}
}

// userAction 按用户名修改账号属性
type userAction struct {
	use   string
	short string
	apply func(cmd *cobra.Command, svc user.Service, id uint) (*user.User, error)
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}

	actions := []userAction{
		{"promote", "设置为管理员", func(cmd *cobra.Command, svc user.Service, id uint) (*user.User, error) {
			return svc.SetAdmin(cmd.Context(), id, true)
		}},
		{"demote", "取消管理员", func(cmd *cobra.Command, svc user.Service, id uint) (*user.User, error) {
			return svc.SetAdmin(cmd.Context(), id, false)
		}},
		{"activate", "启用账号", func(cmd *cobra.Command, svc user.Service, id uint) (*user.User, error) {
			return svc.SetActive(cmd.Context(), id, true)
		}},
		{"deactivate", "停用账号", func(cmd *cobra.Command, svc user.Service, id uint) (*user.User, error) {
			return svc.SetActive(cmd.Context(), id, false)
		}},
	}
	for _, a := range actions {
		cmd.AddCommand(a.command())
	}
	return cmd
}

func (a userAction) command() *cobra.Command {
	return &cobra.Command{
		Use:   a.use + " <username>",
		Short: a.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := setup()
			if err != nil {
				return err
			}
			defer closeLog()

			svc, cleanup, err := InitializeUserService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := svc.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			u, err = a.apply(cmd, svc, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: is_admin=%t is_active=%t\n", u.Username, u.IsAdmin, u.IsActive)
			return nil
		},
	}
}
