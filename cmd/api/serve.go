package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	grpcapi "github.com/xiebiao/library/internal/interface/grpc"
	"github.com/xiebiao/library/pkg/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

// serve 启动服务，收到SIGINT/SIGTERM后优雅关闭
func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	grpcServer := grpcapi.NewServer(app.Health)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("HTTP服务启动", "addr", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	})
	if cfg.Server.GRPCPort > 0 {
		g.Go(func() error {
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
			if err != nil {
				return fmt.Errorf("监听gRPC端口失败: %w", err)
			}
			slog.Info("gRPC健康检查服务启动", "addr", lis.Addr().String())
			return grpcServer.Serve(lis)
		})
	}

	// 等待退出信号或任一服务出错
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("正在关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		app.Health.Shutdown()
		grpcServer.GracefulStop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP服务关闭超时", "error", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Error("关闭TracerProvider失败", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("服务已退出")
	return nil
}
