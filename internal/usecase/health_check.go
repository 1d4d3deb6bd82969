package usecase

import (
	"context"
	"errors"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
)

// Health statuses
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	dependencyOK = "ok"
)

// HealthReport is the service health summary.
type HealthReport struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Version      string            `json:"version"`
}

// HealthChecker reports whether the collaborators the pipeline needs are configured and reachable.
type HealthChecker struct {
	generator repository.Generator
	lookup    repository.FlightLookup
	store     repository.BlobStore
	version   string
}

// NewHealthChecker creates a new health checker. Nil collaborators are reported as missing.
func NewHealthChecker(generator repository.Generator, lookup repository.FlightLookup, store repository.BlobStore, version string) *HealthChecker {
	return &HealthChecker{
		generator: generator,
		lookup:    lookup,
		store:     store,
		version:   version,
	}
}

// Check probes the store and reports configuration of the other dependencies.
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	deps := map[string]string{
		"generation":      dependencyOK,
		"flight_provider": dependencyOK,
		"store":           dependencyOK,
	}
	if h.generator == nil {
		deps["generation"] = "missing_client"
	}
	if h.lookup == nil {
		deps["flight_provider"] = "missing_keys"
	}
	if h.store == nil {
		deps["store"] = "missing"
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if _, err := h.store.Get(probeCtx, entity.HealthDataStore); err != nil && !errors.Is(err, entity.ErrNotFound) {
			deps["store"] = "unreachable"
		}
	}

	status := StatusHealthy
	for _, v := range deps {
		if v != dependencyOK {
			status = StatusDegraded
			break
		}
	}
	return HealthReport{Status: status, Dependencies: deps, Version: h.version}
}
