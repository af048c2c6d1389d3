package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
)

// Config stores runtime configuration for the watchdog.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level
	LogToFile      bool
	LogDir         string

	SourceURL         string
	SourceURLMarker   string
	SportMarker       string
	CaptureDelay      time.Duration
	ConnectionTimeout time.Duration
	PollInterval      time.Duration
	WindowDuration    time.Duration
	StoreMaxMatches   int
	FetchWorkers      int
	FetchMaxRetries   int

	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int

	MatchLogDir string

	PostgresLogEnabled bool
	DBURL              string

	RedisLogEnabled  bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisSnapshotTTL time.Duration

	StatusHTTPEnabled bool
	StatusHTTPAddr    string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// LogFilePath is the file entries are teed to when LogToFile is set.
func (c Config) LogFilePath() string {
	if !c.LogToFile {
		return ""
	}
	return filepath.Join(c.LogDir, "watchdog.log")
}

// LoadDotEnv reads an optional .env file into the process environment.
// Variables already set take precedence.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	logToFile, err := strconv.ParseBool(getEnv("LOG_TO_FILE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_TO_FILE: %w", err)
	}

	sourceURL := strings.TrimSpace(getEnv("SOURCE_URL", ""))
	if sourceURL == "" {
		return Config{}, fmt.Errorf("SOURCE_URL is required")
	}
	sourceURLMarker := strings.TrimSpace(getEnv("SOURCE_URL_MARKER", ""))
	if sourceURLMarker == "" {
		return Config{}, fmt.Errorf("SOURCE_URL_MARKER is required")
	}
	sportMarker := strings.TrimSpace(getEnv("SPORT_MARKER", "esoccer"))

	captureDelay, err := time.ParseDuration(getEnv("CAPTURE_DELAY", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_DELAY: %w", err)
	}
	if captureDelay < 0 {
		return Config{}, fmt.Errorf("CAPTURE_DELAY must be >= 0")
	}
	connectionTimeout, err := time.ParseDuration(getEnv("CONNECTION_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CONNECTION_TIMEOUT: %w", err)
	}
	if connectionTimeout <= 0 {
		return Config{}, fmt.Errorf("CONNECTION_TIMEOUT must be > 0")
	}
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
	}
	if pollInterval < 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be >= 0")
	}
	windowDuration, err := time.ParseDuration(getEnv("WINDOW_DURATION", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WINDOW_DURATION: %w", err)
	}
	if windowDuration <= 0 {
		return Config{}, fmt.Errorf("WINDOW_DURATION must be > 0")
	}

	storeMaxMatches, err := getEnvAsInt("STORE_MAX_MATCHES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse STORE_MAX_MATCHES: %w", err)
	}
	if storeMaxMatches < 0 {
		return Config{}, fmt.Errorf("STORE_MAX_MATCHES must be >= 0")
	}
	fetchWorkers, err := getEnvAsInt("FETCH_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return Config{}, fmt.Errorf("FETCH_WORKERS must be >= 1")
	}
	fetchMaxRetries, err := getEnvAsInt("FETCH_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_MAX_RETRIES: %w", err)
	}
	if fetchMaxRetries < 0 {
		return Config{}, fmt.Errorf("FETCH_MAX_RETRIES must be >= 0")
	}

	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailureCount, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if feedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	feedCircuitOpenTimeout, err := time.ParseDuration(getEnv("FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if feedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	feedCircuitHalfOpenMaxReq, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if feedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	postgresLogEnabled, err := strconv.ParseBool(getEnv("POSTGRES_LOG_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POSTGRES_LOG_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if postgresLogEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when POSTGRES_LOG_ENABLED=true")
	}

	redisLogEnabled, err := strconv.ParseBool(getEnv("REDIS_LOG_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_LOG_ENABLED: %w", err)
	}
	redisAddr := strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	if redisLogEnabled && redisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when REDIS_LOG_ENABLED=true")
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if redisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	redisSnapshotTTL, err := time.ParseDuration(getEnv("REDIS_SNAPSHOT_TTL", "48h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_SNAPSHOT_TTL: %w", err)
	}
	if redisSnapshotTTL <= 0 {
		return Config{}, fmt.Errorf("REDIS_SNAPSHOT_TTL must be > 0")
	}

	statusHTTPEnabled, err := strconv.ParseBool(getEnv("STATUS_HTTP_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATUS_HTTP_ENABLED: %w", err)
	}
	statusHTTPAddr := strings.TrimSpace(getEnv("STATUS_HTTP_ADDR", ":8080"))
	if statusHTTPEnabled && statusHTTPAddr == "" {
		return Config{}, fmt.Errorf("STATUS_HTTP_ADDR is required when STATUS_HTTP_ENABLED=true")
	}
	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "esoccer-watchdog"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   logLevel,
		LogToFile:                  logToFile,
		LogDir:                     strings.TrimSpace(getEnv("LOG_DIR", "./logs")),
		SourceURL:                  sourceURL,
		SourceURLMarker:            sourceURLMarker,
		SportMarker:                sportMarker,
		CaptureDelay:               captureDelay,
		ConnectionTimeout:          connectionTimeout,
		PollInterval:               pollInterval,
		WindowDuration:             windowDuration,
		StoreMaxMatches:            storeMaxMatches,
		FetchWorkers:               fetchWorkers,
		FetchMaxRetries:            fetchMaxRetries,
		FeedCircuitEnabled:         feedCircuitEnabled,
		FeedCircuitFailureCount:    feedCircuitFailureCount,
		FeedCircuitOpenTimeout:     feedCircuitOpenTimeout,
		FeedCircuitHalfOpenMaxReq:  feedCircuitHalfOpenMaxReq,
		MatchLogDir:                strings.TrimSpace(getEnv("MATCH_LOG_DIR", "./res_logs")),
		PostgresLogEnabled:         postgresLogEnabled,
		DBURL:                      dbURL,
		RedisLogEnabled:            redisLogEnabled,
		RedisAddr:                  redisAddr,
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                    redisDB,
		RedisSnapshotTTL:           redisSnapshotTTL,
		StatusHTTPEnabled:          statusHTTPEnabled,
		StatusHTTPAddr:             statusHTTPAddr,
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.LogToFile && cfg.LogDir == "" {
		return Config{}, fmt.Errorf("LOG_DIR cannot be empty when LOG_TO_FILE=true")
	}

	return cfg, nil
}

func parseLogLevel(v string) (logging.Level, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	if value == "warning" {
		value = "warn"
	}
	return logging.ParseLevel(value)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
