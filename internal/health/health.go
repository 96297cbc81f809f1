package health

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name reported to gRPC health clients next to the
// empty (server-wide) name.
const Service = "roomscheduler.v1.RoomScheduler"

type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker answers liveness questions for both the HTTP API and the gRPC
// health protocol.
type Checker struct {
	store  Pinger
	status *health.Server
	log    *zap.Logger
}

func NewChecker(store Pinger, log *zap.Logger) *Checker {
	c := &Checker{store: store, status: health.NewServer(), log: log}
	c.SetServing(false)
	return c
}

// Check reports whether the store currently answers and moves the gRPC
// status to match.
func (c *Checker) Check(ctx context.Context) error {
	err := c.store.Ping(ctx)
	c.SetServing(err == nil)
	return err
}

func (c *Checker) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	c.status.SetServingStatus("", st)
	c.status.SetServingStatus(Service, st)
}

// Shutdown marks everything NOT_SERVING and ignores later updates.
func (c *Checker) Shutdown() { c.status.Shutdown() }

// NewGRPCServer returns a gRPC server exposing only health and reflection.
func (c *Checker) NewGRPCServer() *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, c.status)
	reflection.Register(srv)
	return srv
}

// Serve blocks until srv stops.
func (c *Checker) Serve(srv *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	c.log.Info("grpc health listening", zap.String("addr", lis.Addr().String()))
	return srv.Serve(lis)
}
