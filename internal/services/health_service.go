package services

import (
	"context"
	"runtime"
	"time"

	"retailpulse/pkg/contracts"
	"retailpulse/pkg/contracts/domain"
)

// HealthService provides health check functionality
type HealthService struct {
	startTime time.Time
	analytics *AnalyticsService
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   contracts.VersionInfo  `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Datasets  []DatasetStatus        `json:"datasets,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(analytics *AnalyticsService) *HealthService {
	return &HealthService{
		startTime: time.Now(),
		analytics: analytics,
	}
}

// Check returns the current health status including dataset slot state
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   contracts.GetVersionInfo(),
		Runtime: map[string]interface{}{
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}
	if s.analytics != nil {
		status.Datasets = s.analytics.Status(ctx)
	}
	return status
}

// DatasetKinds returns the supported dataset kinds, for discovery endpoints
func (s *HealthService) DatasetKinds() []domain.DatasetKind {
	return []domain.DatasetKind{domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews}
}
