// Package app wires configuration, logging, metrics and the score log
// around a score director.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kilianp07/vrppd/api"
	"github.com/kilianp07/vrppd/api/routes"
	"github.com/kilianp07/vrppd/config"
	"github.com/kilianp07/vrppd/core/demo"
	"github.com/kilianp07/vrppd/core/director"
	"github.com/kilianp07/vrppd/core/heuristic"
	coremetrics "github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/core/model"
	coremon "github.com/kilianp07/vrppd/core/monitoring"
	"github.com/kilianp07/vrppd/core/scorelog"
	"github.com/kilianp07/vrppd/infra/logger"
	"github.com/kilianp07/vrppd/infra/metrics"
	"github.com/kilianp07/vrppd/infra/monitoring"
	_ "github.com/kilianp07/vrppd/infra/mqtt"
	"github.com/kilianp07/vrppd/internal/eventbus"
	"github.com/kilianp07/vrppd/pkg/export"
)

// Service owns one director built from the configured demo problem.
type Service struct {
	Director *director.Director
	Order    heuristic.Order
	events   <-chan director.Event
	sink     coremetrics.ScoreSink
	store    scorelog.Store
	promAddr string
	apiCfg   config.APIConfig
	snapshot atomic.Pointer[routes.Snapshot]
	log      logger.Logger
}

// New builds the problem and the director described by cfg.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	order, err := heuristic.ParseOrder(cfg.Problem.Order)
	if err != nil {
		return nil, err
	}
	sol, err := cfg.Problem.Builder().Build(demo.NewSequence(0))
	if err != nil {
		return nil, fmt.Errorf("build problem: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := scorelog.Open(cfg.ScoreLog)
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("score log: %w", err)
	}

	bus := eventbus.New[director.Event](0)
	dir, err := director.New(sol, sink, bus, logger.New("director"))
	if err != nil {
		_ = store.Close()
		closeSink(sink)
		return nil, err
	}
	dir.SetScoreLog(store)
	logg.Infow("problem built", logger.Fields{
		"name":     sol.Name,
		"rides":    sol.NumRides(),
		"vehicles": sol.NumVehicles(),
		"windowed": sol.Windowed(),
		"session":  dir.SessionID(),
	})
	return &Service{
		Director: dir,
		Order:    order,
		events:   bus.Subscribe(),
		sink:     sink,
		store:    store,
		promAddr: cfg.Metrics.PrometheusAddr,
		apiCfg:   cfg.API,
		log:      logg,
	}, nil
}

// Solution returns the solution owned by the director.
func (s *Service) Solution() *model.Solution { return s.Director.Solution() }

// Run seeds the routes and scores them. Configured metrics and API endpoints
// are served until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer coremon.Recover()
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiCfg.Addr != "" {
		go func() {
			if err := api.Serve(ctx, s.apiCfg.Addr, api.NewMux(s, s.store, s.apiCfg.Token)); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	go s.watch()
	if err := s.Director.Seed(s.Order); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "service", "op": "seed"})
		return err
	}
	sc, err := s.Director.CalculateScore(ctx)
	if err != nil {
		coremon.CaptureException(err, map[string]string{"module": "service", "op": "score"})
		return err
	}
	if err := s.takeSnapshot(sc.String()); err != nil {
		s.log.Warnf("route snapshot: %v", err)
	}
	s.log.Infow("solution scored", logger.Fields{
		"score":    sc.String(),
		"distance": s.Solution().DistanceString(),
		"feasible": sc.IsFeasible(),
	})
	return nil
}

// Serving reports whether Run started an endpoint that outlives it.
func (s *Service) Serving() bool { return s.promAddr != "" || s.apiCfg.Addr != "" }

// Snapshot returns the routes rendered by the last Run.
func (s *Service) Snapshot() (routes.Snapshot, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return routes.Snapshot{}, false
	}
	return *snap, true
}

func (s *Service) takeSnapshot(score string) error {
	var chart bytes.Buffer
	if err := export.WriteHTML(&chart, s.Solution()); err != nil {
		return err
	}
	s.snapshot.Store(&routes.Snapshot{
		SessionID: s.Director.SessionID(),
		Score:     score,
		Stops:     export.Stops(s.Solution()),
		Chart:     chart.Bytes(),
	})
	return nil
}

// watch logs score events until the bus is closed.
func (s *Service) watch() {
	for e := range s.events {
		if e.Op == director.OpScore {
			s.log.Debugf("score event %s for session %s", e.Score, e.SessionID)
		}
	}
}

// Close releases the director, its event bus and the metrics sinks.
func (s *Service) Close() error {
	err := s.Director.Close()
	closeSink(s.sink)
	coremon.Flush(2 * time.Second)
	return err
}

func closeSink(sink coremetrics.ScoreSink) {
	var sinks []coremetrics.ScoreSink
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		sinks = m.Sinks
	} else {
		sinks = []coremetrics.ScoreSink{sink}
	}
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}

// ErrNotScored is returned when a score is requested before Run.
var ErrNotScored = errors.New("solution has not been scored")

// Score returns the score computed by Run.
func (s *Service) Score() (string, error) {
	sc, ok := s.Director.Score()
	if !ok {
		return "", ErrNotScored
	}
	return sc.String(), nil
}
