// Package grpc gRPC健康检查服务
//
// 只暴露grpc.health.v1.Health，供Kubernetes/负载均衡探活：
//
//	grpcurl -plaintext localhost:9090 grpc.health.v1.Health/Check
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 对外注册的服务名，Check请求中service为空时同样检查
const ServiceName = "library"

// Pinger 数据库连通性检查（*sql.DB满足该接口）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger Redis连通性检查（*redis.SessionStore满足该接口，经过熔断器）
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthService 每次Check都实时ping数据库和Redis，不做后台轮询
// Token撤销检查依赖Redis且失败即拒绝，Redis不可用时认证接口无法工作，同样视为NOT_SERVING
// Watch沿用health.Server的实现，状态由Shutdown切换
type HealthService struct {
	*health.Server
	db      Pinger
	cache   CachePinger
	timeout time.Duration
}

// NewHealthService 创建健康检查服务
func NewHealthService(db Pinger, cache CachePinger) *HealthService {
	s := &HealthService{
		Server:  health.NewServer(),
		db:      db,
		cache:   cache,
		timeout: 2 * time.Second,
	}
	s.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Check 数据库和Redis都可用时返回SERVING
func (s *HealthService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	resp, err := s.Server.Check(ctx, req)
	if err != nil || resp.Status != healthpb.HealthCheckResponse_SERVING {
		return resp, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		slog.WarnContext(ctx, "健康检查：数据库不可用", "error", err)
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	if err := s.cache.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "健康检查：Redis不可用", "error", err)
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return resp, nil
}

// NewServer 创建gRPC服务并注册健康检查和反射
func NewServer(hs *HealthService) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s
}
