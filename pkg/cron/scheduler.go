// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/service"
	"github.com/FACorreiaa/invoice-parser/pkg/config"
)

// Scheduler sweeps the spool directory on a schedule and runs every pending
// statement through the parse service. Processed files are renamed with a
// .done suffix so a sweep never parses the same file twice.
type Scheduler struct {
	cron   *cron.Cron
	svc    *service.Service
	cfg    config.SpoolConfig
	logger *slog.Logger
}

// NewScheduler creates the spool sweep scheduler.
func NewScheduler(svc *service.Service, cfg config.SpoolConfig, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))
	return &Scheduler{
		cron:   c,
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start begins scheduled sweeps.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, s.sweepSpool)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("spool scheduler started",
		slog.String("dir", s.cfg.Dir),
		slog.String("schedule", s.cfg.Schedule),
	)
	return nil
}

// Stop gracefully stops scheduled sweeps.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("spool scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers a sweep outside the schedule (for admin use).
func (s *Scheduler) RunNow() {
	go s.sweepSpool()
}

func (s *Scheduler) sweepSpool() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		s.logger.Error("failed to read spool directory", slog.Any("error", err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(s.cfg.Dir, entry.Name())
		s.processFile(ctx, path)
	}
}

func (s *Scheduler) processFile(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("failed to open spooled statement", slog.String("path", path), slog.Any("error", err))
		return
	}

	result, err := s.svc.ParseDocument(ctx, filepath.Base(path), f)
	_ = f.Close()
	if err != nil {
		s.logger.Error("failed to parse spooled statement", slog.String("path", path), slog.Any("error", err))
		return
	}

	s.logger.Info("spooled statement parsed",
		slog.String("path", path),
		slog.String("verdict", string(result.Verdict.Kind)),
	)

	if err := os.Rename(path, path+".done"); err != nil {
		s.logger.Error("failed to mark statement processed", slog.String("path", path), slog.Any("error", err))
	}
}
