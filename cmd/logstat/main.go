package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/esoccer-watchdog/internal/config"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/headtohead"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/matchlog"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
)

const (
	sourceFile     = "file"
	sourcePostgres = "postgres"
	sourceRedis    = "redis"
)

var logger = logging.NewJSON(logging.LevelInfo)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  go run ./cmd/logstat -source file -path res_logs/parser_results_20260301T100000Z.csv
  go run ./cmd/logstat -source postgres -window 20260301T100000Z
  go run ./cmd/logstat -source redis -out h2h.csv     (latest flushed window)

Env:
  DB_URL                          required for -source postgres
  REDIS_ADDR, REDIS_PASSWORD, REDIS_DB  used by -source redis
`)
}

func main() {
	source := flag.String("source", sourceFile, "where the window log is read from: file, postgres or redis")
	path := flag.String("path", "", "window log file (source=file)")
	window := flag.String("window", "", "window label (source=postgres|redis), redis defaults to the latest window")
	out := flag.String("out", "", "output csv file, stdout when empty")
	flag.Usage = usage
	flag.Parse()

	config.LoadDotEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reader, target, closeReader, err := buildReader(ctx, *source, *path, *window)
	if err != nil {
		usage()
		fatal("build reader failed", "source", *source, "error", err)
	}
	defer closeReader()

	tallies, err := usecase.NewHeadToHeadService(reader, logger).Report(ctx, target)
	if err != nil {
		fatal("head to head report failed", "source", *source, "target", target, "error", err)
	}

	var dst io.Writer = os.Stdout
	if strings.TrimSpace(*out) != "" {
		file, err := os.Create(*out)
		if err != nil {
			fatal("create output failed", "path", *out, "error", err)
		}
		defer file.Close()
		dst = file
	}
	if err := writeTallies(dst, tallies); err != nil {
		fatal("write report failed", "error", err)
	}
}

func buildReader(ctx context.Context, source, path, window string) (usecase.WindowLogReader, string, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(source)) {
	case sourceFile:
		if strings.TrimSpace(path) == "" {
			return nil, "", noop, fmt.Errorf("-path is required for source %s", sourceFile)
		}
		return matchlog.NewCSVReader(), path, noop, nil
	case sourcePostgres:
		if strings.TrimSpace(window) == "" {
			return nil, "", noop, fmt.Errorf("-window is required for source %s", sourcePostgres)
		}
		dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
		if dbURL == "" {
			return nil, "", noop, fmt.Errorf("DB_URL is required")
		}
		db, err := postgres.Open(ctx, postgres.DBConfig{URL: dbURL, MaxOpenConns: 2})
		if err != nil {
			return nil, "", noop, err
		}
		return postgres.NewMatchLogRepository(db), window, func() { _ = db.Close() }, nil
	case sourceRedis:
		redisDB, err := strconv.Atoi(envOr("REDIS_DB", "0"))
		if err != nil {
			return nil, "", noop, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		})
		closeClient := func() { _ = client.Close() }
		repo := redisrepo.NewSnapshotRepository(client, 0)
		if strings.TrimSpace(window) == "" {
			if window, err = repo.LatestWindow(ctx); err != nil {
				closeClient()
				return nil, "", noop, err
			}
		}
		return redisWindowReader{repo: repo}, window, closeClient, nil
	default:
		return nil, "", noop, fmt.Errorf("unknown source %q", source)
	}
}

// redisWindowReader treats the report target as a window label.
type redisWindowReader struct {
	repo *redisrepo.SnapshotRepository
}

func (r redisWindowReader) ReadWindowLog(ctx context.Context, windowLabel string) ([]match.Record, error) {
	return r.repo.ReadWindow(ctx, windowLabel)
}

func writeTallies(dst io.Writer, tallies []headtohead.Tally) error {
	w := csv.NewWriter(dst)
	if err := w.Write([]string{"team1", "team2", "wins_team_1", "wins_team_2", "draws", "matches"}); err != nil {
		return err
	}
	for _, t := range tallies {
		row := []string{
			t.Team1,
			t.Team2,
			strconv.Itoa(t.WinsTeam1),
			strconv.Itoa(t.WinsTeam2),
			strconv.Itoa(t.Draws),
			strconv.Itoa(t.Matches),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	_ = logger.Sync()
	os.Exit(1)
}
