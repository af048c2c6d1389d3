package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/headtohead"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
)

// WindowLogReader loads the records of a window log written by the watchdog.
type WindowLogReader interface {
	ReadWindowLog(ctx context.Context, path string) ([]match.Record, error)
}

type HeadToHeadService struct {
	reader WindowLogReader
	logger *logging.Logger
}

func NewHeadToHeadService(reader WindowLogReader, logger *logging.Logger) *HeadToHeadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HeadToHeadService{reader: reader, logger: logger}
}

// Report tallies wins and draws per player pair over one window log.
func (s *HeadToHeadService) Report(ctx context.Context, path string) ([]headtohead.Tally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeadToHeadService.Report")
	defer span.End()

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: log path is required", ErrInvalidInput)
	}
	if s.reader == nil {
		return nil, fmt.Errorf("%w: window log reader is not configured", ErrDependencyUnavailable)
	}

	records, err := s.reader.ReadWindowLog(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read window log %s: %w", path, err)
	}

	tallies := headtohead.Tabulate(records)
	for _, tally := range tallies {
		s.logger.DebugContext(ctx, "head to head",
			"team1", tally.Team1,
			"team2", tally.Team2,
			"wins_team_1", tally.WinsTeam1,
			"wins_team_2", tally.WinsTeam2,
			"draws", tally.Draws,
			"matches", tally.Matches,
		)
	}
	s.logger.InfoContext(ctx, "head to head report built", "path", path, "records", len(records), "pairs", len(tallies))
	return tallies, nil
}
