// 图书馆管理后端
//
// 用法：
//
//	library serve                      启动HTTP服务（grpc_port>0时同时启动gRPC健康检查）
//	library migrate                    执行数据库迁移
//	library user promote <username>    设置管理员
//	library user deactivate <username> 停用账号
//
// @title                       Library API
// @version                     1.0
// @description                 图书馆管理后端：图书、作者、分类与用户
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer {access_token}
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "图书馆管理后端",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newUserCmd())
	return root
}

// setup 加载配置并初始化日志，返回的closer用于关闭日志文件
func setup() (*config.Config, func() error, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	_, closer, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, closer, nil
}
