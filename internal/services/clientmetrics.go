package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/metrics"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ClientMetricsService interface {
	// RegisterMetrics validates a reported bucket, persists it raw,
	// refreshes the reporting instance and hands the payload to the
	// in-memory aggregator.
	RegisterMetrics(ctx context.Context, payload metrics.ClientMetricsPayload, clientIP string) error
}

type clientMetricsService struct {
	log          *logger.Logger
	metricRepo   repos.ClientMetricRepo
	instanceRepo repos.ClientInstanceRepo
	stream       *metrics.Stream
}

func NewClientMetricsService(
	baseLog *logger.Logger,
	metricRepo repos.ClientMetricRepo,
	instanceRepo repos.ClientInstanceRepo,
	stream *metrics.Stream,
) ClientMetricsService {
	return &clientMetricsService{
		log:          baseLog.With("service", "ClientMetricsService"),
		metricRepo:   metricRepo,
		instanceRepo: instanceRepo,
		stream:       stream,
	}
}

func (s *clientMetricsService) RegisterMetrics(ctx context.Context, payload metrics.ClientMetricsPayload, clientIP string) error {
	if err := validateMetricsPayload(payload); err != nil {
		return err
	}

	bucket, err := json.Marshal(payload.Bucket)
	if err != nil {
		return fmt.Errorf("marshal metrics bucket: %w", err)
	}
	if err := s.metricRepo.Insert(ctx, nil, &types.ClientMetric{
		AppName:    payload.AppName,
		InstanceID: payload.InstanceID,
		Bucket:     bucket,
	}); err != nil {
		return fmt.Errorf("persist metrics bucket: %w", err)
	}

	if err := s.instanceRepo.Upsert(ctx, nil, &types.ClientInstance{
		AppName:    payload.AppName,
		InstanceID: payload.InstanceID,
		ClientIP:   clientIP,
		LastSeen:   time.Now(),
	}); err != nil {
		// The bucket is stored and still reaches the aggregator; a stale
		// instance row only degrades the applications view.
		s.log.Warn("Failed to refresh client instance", "appName", payload.AppName, "error", err)
	}

	s.stream.Emit(payload)
	return nil
}

func validateMetricsPayload(payload metrics.ClientMetricsPayload) error {
	if payload.AppName == "" {
		return apierr.Validation(errors.New("appName is required"))
	}
	if payload.InstanceID == "" {
		return apierr.Validation(errors.New("instanceId is required"))
	}
	if payload.Bucket.Stop.IsZero() {
		return apierr.Validation(errors.New("bucket stop timestamp is required"))
	}
	if !payload.Bucket.Start.IsZero() && payload.Bucket.Stop.Before(payload.Bucket.Start) {
		return apierr.Validation(errors.New("bucket stop must not precede bucket start"))
	}
	return nil
}
