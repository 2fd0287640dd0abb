package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	DBURL                        string
	DBDisablePreparedBinary      bool
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	CORSAllowedOrigins           []string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	PprofEnabled                 bool
	PprofAddr                    string
	UptraceEnabled               bool
	UptraceDSN                   string
	UptraceLogsEnabled           bool
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	LeagueAPIBaseURL             string
	LeagueAPIKey                 string
	LeagueID                     int64
	LeagueAPITimeout             time.Duration
	LeagueAPIMaxRetries          int
	LeagueCircuitEnabled         bool
	LeagueCircuitFailureCount    int
	LeagueCircuitOpenTimeout     time.Duration
	LeagueCircuitHalfOpenMaxReq  int
	BallchasingBaseURL           string
	BallchasingToken             string
	BallchasingTimeout           time.Duration
	BallchasingMaxRetries        int
	BallchasingTopGroupID        string
	ReplayParseWorkers           int
	InternalJobToken             string
	CheckinSweepTime             string
	LogLevel                     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
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

	leagueAPITimeout, err := time.ParseDuration(getEnv("RSC_API_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_TIMEOUT: %w", err)
	}
	if leagueAPITimeout <= 0 {
		return Config{}, fmt.Errorf("RSC_API_TIMEOUT must be > 0")
	}
	leagueAPIMaxRetries, err := getEnvAsInt("RSC_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_MAX_RETRIES: %w", err)
	}
	if leagueAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("RSC_API_MAX_RETRIES must be >= 0")
	}
	leagueID, err := getEnvAsInt("RSC_API_LEAGUE_ID", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_LEAGUE_ID: %w", err)
	}
	if leagueID < 1 {
		return Config{}, fmt.Errorf("RSC_API_LEAGUE_ID must be >= 1")
	}
	leagueCircuitEnabled, err := strconv.ParseBool(getEnv("RSC_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_CIRCUIT_ENABLED: %w", err)
	}
	leagueCircuitFailureCount, err := getEnvAsInt("RSC_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if leagueCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("RSC_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	leagueCircuitOpenTimeout, err := time.ParseDuration(getEnv("RSC_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if leagueCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("RSC_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	leagueCircuitHalfOpenMaxReq, err := getEnvAsInt("RSC_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RSC_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if leagueCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("RSC_API_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	ballchasingTimeout, err := time.ParseDuration(getEnv("BALLCHASING_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLCHASING_TIMEOUT: %w", err)
	}
	if ballchasingTimeout <= 0 {
		return Config{}, fmt.Errorf("BALLCHASING_TIMEOUT must be > 0")
	}
	ballchasingMaxRetries, err := getEnvAsInt("BALLCHASING_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLCHASING_MAX_RETRIES: %w", err)
	}
	if ballchasingMaxRetries < 0 {
		return Config{}, fmt.Errorf("BALLCHASING_MAX_RETRIES must be >= 0")
	}

	replayParseWorkers, err := getEnvAsInt("REPLAY_PARSE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPLAY_PARSE_WORKERS: %w", err)
	}
	if replayParseWorkers < 1 {
		return Config{}, fmt.Errorf("REPLAY_PARSE_WORKERS must be >= 1")
	}

	sweepTime := strings.TrimSpace(getEnv("CHECKIN_SWEEP_TIME", "09:00"))
	if _, err := time.Parse("15:04", sweepTime); err != nil {
		return Config{}, fmt.Errorf("parse CHECKIN_SWEEP_TIME: %w", err)
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "rsc-core-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                       getEnv("DB_URL", ""),
		DBDisablePreparedBinary:     true,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		LeagueAPIBaseURL:            strings.TrimSpace(getEnv("RSC_API_BASE_URL", "https://api.rscna.com/api/v1")),
		LeagueAPIKey:                strings.TrimSpace(getEnv("RSC_API_KEY", "")),
		LeagueID:                    int64(leagueID),
		LeagueAPITimeout:            leagueAPITimeout,
		LeagueAPIMaxRetries:         leagueAPIMaxRetries,
		LeagueCircuitEnabled:        leagueCircuitEnabled,
		LeagueCircuitFailureCount:   leagueCircuitFailureCount,
		LeagueCircuitOpenTimeout:    leagueCircuitOpenTimeout,
		LeagueCircuitHalfOpenMaxReq: leagueCircuitHalfOpenMaxReq,
		BallchasingBaseURL:          strings.TrimSpace(getEnv("BALLCHASING_BASE_URL", "https://ballchasing.com/api")),
		BallchasingToken:            strings.TrimSpace(getEnv("BALLCHASING_TOKEN", "")),
		BallchasingTimeout:          ballchasingTimeout,
		BallchasingMaxRetries:       ballchasingMaxRetries,
		BallchasingTopGroupID:       strings.TrimSpace(getEnv("BALLCHASING_TOP_GROUP_ID", "")),
		ReplayParseWorkers:          replayParseWorkers,
		InternalJobToken:            strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		CheckinSweepTime:            sweepTime,
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
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
