package logging

import (
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
)

// APIObserver logs one entry per admin API call.
type APIObserver struct {
	logger *zap.Logger
}

// NewAPIObserver returns an api.Observer backed by logger.
func NewAPIObserver(logger *zap.Logger) *APIObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIObserver{logger: logger.Named("api")}
}

func (o *APIObserver) OnCallComplete(event api.CallEvent) {
	fields := []zap.Field{
		zap.String("method", event.Method),
		zap.String("path", event.Path),
		zap.Int("status", event.Status),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.logger.Info("api call", fields...)
		return
	}
	o.logger.Warn("api call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}
