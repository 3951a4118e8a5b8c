// Package transport exposes the WebSocket subscription server and gRPC/HTTP handlers.
package transport

import (
	"context"
	"sort"
	"time"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const healthTimeout = 2 * time.Second

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer

	deps   map[string]Pinger
	logger *zap.Logger
}

// NewExplorerHandler returns an ExplorerHandler that reports healthy only while every dependency answers a ping.
func NewExplorerHandler(deps map[string]Pinger, logger *zap.Logger) blockinsight7000v1.ExplorerServiceServer {
	return &ExplorerHandler{
		deps:   deps,
		logger: logger.Named("explorer_handler"),
	}
}

// Health reports server health.
func (h *ExplorerHandler) Health(ctx context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			h.logger.Warn("dependency unreachable", zap.String("dependency", name), zap.Error(err))
			return nil, status.Errorf(codes.Unavailable, "%s unreachable: %v", name, err)
		}
	}

	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: "",
	}, nil
}
