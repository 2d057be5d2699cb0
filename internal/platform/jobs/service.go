package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/assessment"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/config"
)

const (
	JobSessionPurge = "session_purge"
	JobDraftSweep   = "draft_sweep"
)

type Service struct {
	DB      *pgxpool.Pool
	Cfg     config.Config
	Manager *assessment.Manager
	queue   chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, manager *assessment.Manager) *Service {
	return &Service{
		DB:      db,
		Cfg:     cfg,
		Manager: manager,
		queue:   make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.SessionPurgeInterval > 0 {
		go s.scheduleSessionPurge(ctx, s.Cfg.SessionPurgeInterval)
	}
	if s.Cfg.DraftTTL > 0 && s.Manager != nil {
		go s.scheduleDraftSweep(ctx, s.Cfg.DraftTTL)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.TenantID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleSessionPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSessionPurge, "", func(ctx context.Context) (any, error) {
				return s.purgeExpiredCredentials(ctx)
			})
		}
	}
}

func (s *Service) purgeExpiredCredentials(ctx context.Context) (any, error) {
	sessions, err := s.DB.Exec(ctx, "DELETE FROM sessions WHERE expires_at < now() OR revoked_at IS NOT NULL")
	if err != nil {
		return nil, err
	}
	resets, err := s.DB.Exec(ctx, "DELETE FROM password_resets WHERE expires_at < now() OR used_at IS NOT NULL")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"sessionsDeleted": sessions.RowsAffected(),
		"resetsDeleted":   resets.RowsAffected(),
	}, nil
}

func (s *Service) scheduleDraftSweep(ctx context.Context, ttl time.Duration) {
	// sweeping more often than the TTL keeps eviction lag bounded
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobDraftSweep, "", func(ctx context.Context) (any, error) {
				evicted := s.Manager.SweepIdle(ttl, time.Now())
				return map[string]any{"evicted": len(evicted)}, nil
			})
		}
	}
}
