package service

import (
	"context"
	"pilot-bidding-api/internal/repo"
	"time"
)

const pingTimeout = 2 * time.Second

type DiagnosticsService struct {
	diagnosticsRepo repo.Diagnostics
}

func NewDiagnosticsService(repos *repo.Repositories) *DiagnosticsService {
	return &DiagnosticsService{repos.Diagnostics}
}

func (s *DiagnosticsService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return s.diagnosticsRepo.Ping(ctx)
}
