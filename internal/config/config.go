package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DatabaseSchemePostgres is the postgres database scheme identifier
	DatabaseSchemePostgres = "postgres"

	// DefaultStateLogFile is the state log every test node writes
	DefaultStateLogFile = "state-00001-log.txt"
)

// Markers are the substrings that classify a state log line.
type Markers struct {
	DS    string `yaml:"ds"`
	MB    string `yaml:"mb"`
	FB    string `yaml:"fb"`
	Begin string `yaml:"begin"`
	Done  string `yaml:"done"`
}

// DefaultMarkers returns the tags written by the node state logger.
func DefaultMarkers() Markers {
	return Markers{
		DS:    "[DSCON]",
		MB:    "[MICON]",
		FB:    "[FBCON]",
		Begin: "BGIN",
		Done:  "DONE",
	}
}

type Config struct {
	StateLogFile string // file name or glob pattern searched under the log path
	Markers      Markers
	DBDialect    string // postgres only
	DBDsn        string // DSN string passed to GORM driver
	Debug        bool   // debug-level logs
	View         bool   // open the report viewer after writing the report
}

// fileConfig is the layout of the optional YAML file named by PROFILER_CONFIG.
type fileConfig struct {
	StateLogFile string  `yaml:"stateLogFile"`
	Markers      Markers `yaml:"markers"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// parseDatabaseURL interprets DATABASE_URL and returns (dialect, dsn).
// Supported schemes: postgres, postgresql.
func parseDatabaseURL(databaseURL string) (string, string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case DatabaseSchemePostgres, "postgresql":
		// GORM postgres driver accepts URL DSN as-is
		return DatabaseSchemePostgres, databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %s", u.Scheme)
	}
}

// loadFile decodes the YAML config at path.
func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	f, err := os.Open(path)
	if err != nil {
		return fc, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fc, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

func (m *Markers) merge(o Markers) {
	if o.DS != "" {
		m.DS = o.DS
	}
	if o.MB != "" {
		m.MB = o.MB
	}
	if o.FB != "" {
		m.FB = o.FB
	}
	if o.Begin != "" {
		m.Begin = o.Begin
	}
	if o.Done != "" {
		m.Done = o.Done
	}
}

// Load builds the configuration from defaults, the optional PROFILER_CONFIG file and the
// environment, in that order of precedence.
func Load() (Config, error) {
	cfg := Config{
		StateLogFile: DefaultStateLogFile,
		Markers:      DefaultMarkers(),
	}

	if path := strings.TrimSpace(os.Getenv("PROFILER_CONFIG")); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if fc.StateLogFile != "" {
			cfg.StateLogFile = fc.StateLogFile
		}
		cfg.Markers.merge(fc.Markers)
	}

	cfg.StateLogFile = getenv("STATE_LOG_FILE", cfg.StateLogFile)
	cfg.Debug = getenvBool("DEBUG", false)
	cfg.View = getenvBool("VIEW", false)

	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" {
		if dialect, dsn, err := parseDatabaseURL(dbURL); err == nil {
			cfg.DBDialect = dialect
			cfg.DBDsn = dsn
		} else {
			fmt.Fprintf(os.Stderr, "warning: invalid DATABASE_URL, disabling persistence: %v\n", err)
		}
	}

	return cfg, nil
}

func (c Config) String() string {
	return fmt.Sprintf("file=%s db=%s", c.StateLogFile, c.DBDialect)
}

// DebugString returns a human-friendly configuration string with masked secrets.
func (c Config) DebugString() string {
	return fmt.Sprintf(
		"file=%s markers=%s/%s/%s/%s/%s db=%s dsn=%s view=%t",
		c.StateLogFile,
		c.Markers.DS, c.Markers.MB, c.Markers.FB, c.Markers.Begin, c.Markers.Done,
		c.DBDialect,
		maskDSN(c.DBDialect, c.DBDsn),
		c.View,
	)
}

func maskDSN(dialect, dsn string) string {
	switch strings.ToLower(dialect) {
	case DatabaseSchemePostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
			if u.User != nil {
				username := u.User.Username()
				u.User = url.User(username)
			}
			return u.String()
		}
		// Fallback for DSN as key-value list
		parts := strings.Fields(dsn)
		for i, p := range parts {
			lower := strings.ToLower(p)
			if strings.HasPrefix(lower, "password=") {
				parts[i] = "password=***"
			}
		}
		return strings.Join(parts, " ")
	default:
		return dsn
	}
}
