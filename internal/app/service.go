// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/triago/internal/adapters/registry"
	"github.com/okian/triago/internal/adapters/remote"
	"github.com/okian/triago/internal/domain/model"
	"github.com/okian/triago/internal/domain/ranking"
	"github.com/okian/triago/internal/domain/triage"
	"github.com/okian/triago/internal/domain/wait"
	"github.com/okian/triago/pkg/logger"
	"github.com/okian/triago/pkg/metrics"
)

const defaultMaxRadiusKM = 50.0

// Service implements the API dependencies for the triage system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine     triage.Classifier
	estimator  *wait.Estimator
	ranker     *ranking.Ranker
	facilities registry.Store
	remote     remote.Adapter

	// Configuration
	maxRadiusKM         float64
	facilityMultipliers map[string]float64
	seeds               []model.Facility
	now                 func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRemoteAdapter enables the remote model adapter. A nil adapter leaves
// the rule engine verdict final.
func WithRemoteAdapter(a remote.Adapter) Option {
	return func(s *Service) {
		s.remote = a
	}
}

// WithMaxRadiusKM bounds the facility search radius for ranking.
func WithMaxRadiusKM(km float64) Option {
	return func(s *Service) {
		if km > 0 {
			s.maxRadiusKM = km
		}
	}
}

// WithFacilityMultipliers sets per-facility load multipliers for the
// wait estimator.
func WithFacilityMultipliers(m map[string]float64) Option {
	return func(s *Service) {
		if len(m) > 0 {
			s.facilityMultipliers = m
		}
	}
}

// WithFacilities seeds the facility directory at startup.
func WithFacilities(facilities []model.Facility) Option {
	return func(s *Service) {
		s.seeds = facilities
	}
}

// WithNow replaces the clock, used by tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxRadiusKM: defaultMaxRadiusKM,
		now:         time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting triage service...")

	// Initialize components
	s.engine = triage.NewEngine()
	estOpts := []wait.Option{}
	if s.facilityMultipliers != nil {
		estOpts = append(estOpts, wait.WithFacilityMultipliers(s.facilityMultipliers))
	}
	s.estimator = wait.NewEstimator(estOpts...)
	s.ranker = ranking.NewRanker(s.estimator, ranking.WithMaxRadiusKM(s.maxRadiusKM))
	s.facilities = registry.NewInMemoryStore(ctx, registry.WithFacilities(s.seeds))

	metrics.UpdateFacilityCount(s.facilities.Count(ctx))

	s.started = true
	s.logger.Info(ctx, "triage service started",
		logger.Int("facilities", s.facilities.Count(ctx)),
		logger.Float64("maxRadiusKM", s.maxRadiusKM),
		logger.Any("remoteEnabled", s.remote != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping triage service...")
	s.started = false
	s.logger.Info(context.Background(), "triage service stopped")
}

// ClassifyTriage produces a triage verdict for the given presentation.
// The rule engine verdict is always computed first; when a remote adapter
// is configured its assessment overrides the rule verdict, and any remote
// failure falls back to the rule verdict with the fallback method marker.
func (s *Service) ClassifyTriage(ctx context.Context, req model.TriageRequest) (model.TriageVerdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.TriageVerdict{}, ErrNotStarted
	}

	start := time.Now()
	verdict := s.engine.Classify(ctx, req)

	if s.remote != nil {
		if remoteVerdict, ok := s.remote.TryClassify(ctx, req, verdict); ok {
			verdict = remoteVerdict
			metrics.RecordRemoteOverride()
		} else {
			verdict.Method = model.MethodRemoteModelFallback
			metrics.RecordRemoteFallback()
		}
	}

	metrics.RecordClassification(string(verdict.Severity), string(verdict.Method))
	metrics.RecordClassificationLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "classified presentation",
		logger.String("severity", string(verdict.Severity)),
		logger.String("method", string(verdict.Method)),
		logger.Float64("confidence", verdict.Confidence),
	)

	return verdict, nil
}

// RankFacilities scores every registered facility for the given patient
// location and severity, and splits the result into an optimal pick plus
// a bounded list of alternatives.
func (s *Service) RankFacilities(ctx context.Context, user model.Coordinate, severity model.Severity) (ranking.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ranking.Result{}, ErrNotStarted
	}
	if !user.Valid() {
		return ranking.Result{}, ErrInvalidCoordinate
	}
	if !severity.Valid() {
		return ranking.Result{}, ErrInvalidSeverity
	}

	start := time.Now()
	metrics.RecordRankRequest()

	candidates := s.facilities.List(ctx)
	result := s.ranker.Route(ctx, user, candidates, severity, s.now())

	metrics.RecordRankLatency(float64(time.Since(start).Milliseconds()))
	if excluded := len(candidates) - result.TotalAnalyzed; excluded > 0 {
		metrics.RecordRankExcluded(excluded)
	}
	if result.Optimal == nil {
		metrics.RecordRankEmpty()
	}

	s.logger.Debug(ctx, "ranked facilities",
		logger.Int("candidates", len(candidates)),
		logger.Int("analyzed", result.TotalAnalyzed),
		logger.String("severity", string(severity)),
	)

	return result, nil
}

// PutFacility inserts or replaces a facility record.
func (s *Service) PutFacility(ctx context.Context, f model.Facility) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}

	if err := s.facilities.Put(ctx, f); err != nil {
		metrics.RecordRegistryError()
		return err
	}

	metrics.UpdateFacilityCount(s.facilities.Count(ctx))
	metrics.UpdateFacilityQueueLength(f.ID, f.CurrentQueueLength)
	return nil
}

// SetQueueLength updates the live queue length for a facility.
func (s *Service) SetQueueLength(ctx context.Context, id string, length int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}

	if err := s.facilities.SetQueueLength(ctx, id, length); err != nil {
		metrics.RecordRegistryError()
		return err
	}

	metrics.UpdateFacilityQueueLength(id, length)
	return nil
}

// ListFacilities returns all registered facilities.
func (s *Service) ListFacilities(ctx context.Context) ([]model.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.facilities.List(ctx), nil
}

// GetFacility returns the facility with the given id.
func (s *Service) GetFacility(ctx context.Context, id string) (model.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Facility{}, ErrNotStarted
	}
	return s.facilities.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"maxRadiusKM":   s.maxRadiusKM,
		"remoteEnabled": s.remote != nil,
	}

	if s.started {
		count := s.facilities.Count(context.Background())
		stats["facilityCount"] = count
		metrics.UpdateFacilityCount(count)
	}

	return stats
}
