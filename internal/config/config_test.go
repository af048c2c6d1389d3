package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SOURCE_URL", "https://example.com/live/esports")
	t.Setenv("SOURCE_URL_MARKER", "/live/events")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresSource(t *testing.T) {
	t.Run("missing source url", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SOURCE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without SOURCE_URL")
		}
	})

	t.Run("missing url marker", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SOURCE_URL_MARKER", " ")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without SOURCE_URL_MARKER")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{
		"SPORT_MARKER", "CAPTURE_DELAY", "CONNECTION_TIMEOUT", "POLL_INTERVAL", "WINDOW_DURATION",
		"STORE_MAX_MATCHES", "FETCH_WORKERS", "FETCH_MAX_RETRIES", "MATCH_LOG_DIR",
		"POSTGRES_LOG_ENABLED", "REDIS_LOG_ENABLED", "STATUS_HTTP_ENABLED", "STATUS_HTTP_ADDR",
		"APP_LOG_LEVEL", "LOG_TO_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SportMarker != "esoccer" {
		t.Fatalf("unexpected sport marker: %q", cfg.SportMarker)
	}
	if cfg.CaptureDelay != 10*time.Second || cfg.ConnectionTimeout != 15*time.Second {
		t.Fatalf("unexpected timeouts: capture=%s connection=%s", cfg.CaptureDelay, cfg.ConnectionTimeout)
	}
	if cfg.PollInterval != 0 || cfg.WindowDuration != 24*time.Hour {
		t.Fatalf("unexpected cadence: poll=%s window=%s", cfg.PollInterval, cfg.WindowDuration)
	}
	if cfg.StoreMaxMatches != 0 || cfg.FetchWorkers != 8 || cfg.FetchMaxRetries != 0 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.MatchLogDir != "./res_logs" {
		t.Fatalf("unexpected match log dir: %q", cfg.MatchLogDir)
	}
	if cfg.PostgresLogEnabled || cfg.RedisLogEnabled {
		t.Fatalf("expected optional sinks disabled by default")
	}
	if !cfg.StatusHTTPEnabled || cfg.StatusHTTPAddr != ":8080" {
		t.Fatalf("unexpected status api config: enabled=%t addr=%q", cfg.StatusHTTPEnabled, cfg.StatusHTTPAddr)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.LogFilePath() != "" {
		t.Fatalf("expected no log file by default, got %q", cfg.LogFilePath())
	}
}

func TestLoad_LogToFile(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("LOG_DIR", "/var/log/watchdog")
	t.Setenv("APP_LOG_LEVEL", "warning")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogFilePath() != filepath.Join("/var/log/watchdog", "watchdog.log") {
		t.Fatalf("unexpected log file path: %q", cfg.LogFilePath())
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"WINDOW_DURATION":            "0s",
		"FETCH_WORKERS":              "0",
		"FETCH_MAX_RETRIES":          "-1",
		"STORE_MAX_MATCHES":          "many",
		"POLL_INTERVAL":              "-1s",
		"CONNECTION_TIMEOUT":         "soon",
		"FEED_CIRCUIT_FAILURE_COUNT": "0",
		"APP_LOG_LEVEL":              "verbose",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_OptionalSinksRequireTargets(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		setRequired(t)
		t.Setenv("POSTGRES_LOG_ENABLED", "true")
		t.Setenv("DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when POSTGRES_LOG_ENABLED=true without DB_URL")
		}
	})

	t.Run("redis", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REDIS_LOG_ENABLED", "true")
		t.Setenv("REDIS_ADDR", "cache:6380")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("REDIS_SNAPSHOT_TTL", "1h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RedisAddr != "cache:6380" || cfg.RedisDB != 2 || cfg.RedisSnapshotTTL != time.Hour {
			t.Fatalf("unexpected redis config: %+v", cfg)
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_SERVICE_NAME", "esoccer-watchdog-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "esoccer-watchdog-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}
