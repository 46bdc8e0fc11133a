// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"horizon/internal/core/ports"
)

// Config is the fully resolved, process-wide configuration for a horizon
// run: the set of sources to build, fusion/dedup parameters, and output
// preferences.
type Config struct {
	Topic      string
	MaxWorkers int
	TimeoutS   int // seconds; whole-run deadline and timeout of sources without their own; 0 means no run deadline
	Language   string
	FeedURLs   []string

	// Domain, Market, and Vertical feed the query specializer's depth,
	// breadth, and trends variants (see domain.ResearchConfig).
	Domain   string
	Market   string
	Vertical string

	OutputFormat string // "table" or "json"
	OutputPath   string // "" writes to stdout

	Sources map[string]ports.SourceConfig

	Fusion Fusion
	Dedup  Dedup

	Resilience Resilience

	PrintVersion bool
}

type Fusion struct {
	RRFConstant int
}

type Dedup struct {
	Threshold    float64
	Permutations int
}

type Resilience struct {
	CircuitBreakerThreshold   int
	CircuitBreakerTimeout     time.Duration
	CircuitBreakerHalfOpenMax int
}

// DefaultConfig returns the out-of-the-box configuration: every known
// source enabled, at priorities 10/8/6/4 (depth, breadth, trends, curated),
// default fusion/dedup parameters.
func DefaultConfig() Config {
	return Config{
		MaxWorkers: 8,
		TimeoutS:   30,
		Language:   "en",

		OutputFormat: "table",

		Sources: map[string]ports.SourceConfig{
			"depth-search":   {Enabled: true, Timeout: 30 * time.Second, Priority: 10, Custom: map[string]string{}},
			"breadth-search": {Enabled: true, Timeout: 30 * time.Second, Priority: 8, Custom: map[string]string{}},
			"trends-search":  {Enabled: true, Timeout: 30 * time.Second, Priority: 6, Custom: map[string]string{}},
			"curated-feed":   {Enabled: true, Timeout: 5 * time.Second, Priority: 4, Custom: map[string]string{}},
		},

		Fusion: Fusion{RRFConstant: 60},
		Dedup:  Dedup{Threshold: 0.80, Permutations: 128},

		Resilience: Resilience{
			CircuitBreakerThreshold:   5,
			CircuitBreakerTimeout:     60 * time.Second,
			CircuitBreakerHalfOpenMax: 3,
		},
	}
}

// Load resolves configuration in order: defaults, then an optional YAML
// config file (HORIZON_CONFIG_FILE), then environment variables (HORIZON_*),
// then CLI flags, which win last.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	if err := LoadFromFile(&cfg, getenv("HORIZON_CONFIG_FILE", "")); err != nil {
		return cfg, err
	}
	loadFromEnv(&cfg)
	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}
	normalize(&cfg)

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := getenv("HORIZON_TOPIC", ""); v != "" {
		cfg.Topic = v
	}
	if v := getenv("HORIZON_WORKERS", ""); v != "" {
		cfg.MaxWorkers = parseInt(v, cfg.MaxWorkers)
	}
	if v := getenv("HORIZON_TIMEOUT", ""); v != "" {
		cfg.TimeoutS = parseInt(v, cfg.TimeoutS)
	}
	if v := getenv("HORIZON_LANGUAGE", ""); v != "" {
		cfg.Language = v
	}
	if v := getenv("HORIZON_DOMAIN", ""); v != "" {
		cfg.Domain = v
	}
	if v := getenv("HORIZON_MARKET", ""); v != "" {
		cfg.Market = v
	}
	if v := getenv("HORIZON_VERTICAL", ""); v != "" {
		cfg.Vertical = v
	}
	if v := getenv("HORIZON_OUTPUT_FORMAT", ""); v != "" {
		cfg.OutputFormat = v
	}
	if v := getenv("HORIZON_OUTPUT_PATH", ""); v != "" {
		cfg.OutputPath = v
	}

	// Per-source overrides, e.g. HORIZON_SOURCES_DEPTH_SEARCH_ENABLED=false.
	for name := range cfg.Sources {
		prefix := fmt.Sprintf("HORIZON_SOURCES_%s_", envKey(name))
		sourceCfg := cfg.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sourceCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			sourceCfg.Priority = parseInt(v, sourceCfg.Priority)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sourceCfg.Timeout = time.Duration(parseInt(v, int(sourceCfg.Timeout.Seconds()))) * time.Second
		}
		if v := getenv(prefix+"ENDPOINT", ""); v != "" {
			if sourceCfg.Custom == nil {
				sourceCfg.Custom = make(map[string]string)
			}
			sourceCfg.Custom["endpoint"] = v
		}
		if v := getenv(prefix+"API_KEY", ""); v != "" {
			if sourceCfg.Custom == nil {
				sourceCfg.Custom = make(map[string]string)
			}
			sourceCfg.Custom["api_key"] = v
		}

		cfg.Sources[name] = sourceCfg
	}

	if v := getenv("HORIZON_RRF_K", ""); v != "" {
		cfg.Fusion.RRFConstant = parseInt(v, cfg.Fusion.RRFConstant)
	}
	if v := getenv("HORIZON_DEDUP_THRESHOLD", ""); v != "" {
		cfg.Dedup.Threshold = parseFloat(v, cfg.Dedup.Threshold)
	}
	if v := getenv("HORIZON_DEDUP_PERMUTATIONS", ""); v != "" {
		cfg.Dedup.Permutations = parseInt(v, cfg.Dedup.Permutations)
	}
	if v := getenv("HORIZON_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
}

// loadFromFlags parses CLI flags on a private FlagSet, so repeated Load
// calls (as in tests) never collide on pflag's shared CommandLine.
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("horizon", pflag.ContinueOnError)

	fs.StringVar(&cfg.Topic, "topic", cfg.Topic, "Research topic")
	fs.IntVar(&cfg.MaxWorkers, "workers", cfg.MaxWorkers, "Maximum concurrent source calls")
	fs.IntVar(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "Whole-run timeout in seconds, also used for sources without their own timeout")
	fs.StringVar(&cfg.Language, "language", cfg.Language, "Preferred result language")
	fs.StringVar(&cfg.Domain, "domain", cfg.Domain, "Domain/vertical cue for depth-query specialization")
	fs.StringVar(&cfg.Market, "market", cfg.Market, "Market cue for breadth-query specialization")
	fs.StringVar(&cfg.Vertical, "vertical", cfg.Vertical, "Vertical cue for depth- and trends-query specialization")
	fs.StringVar(&cfg.OutputFormat, "output", cfg.OutputFormat, "Output format: table or json")
	fs.StringVar(&cfg.OutputPath, "output-path", cfg.OutputPath, "Output file path (empty writes to stdout)")
	fs.IntVar(&cfg.Fusion.RRFConstant, "rrf-k", cfg.Fusion.RRFConstant, "Reciprocal rank fusion constant")
	fs.Float64Var(&cfg.Dedup.Threshold, "dedup-threshold", cfg.Dedup.Threshold, "Near-duplicate similarity threshold")
	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Print version and exit")

	for name := range cfg.Sources {
		sourceCfg := cfg.Sources[name]
		fs.BoolVar(&sourceCfg.Enabled, "src."+name, sourceCfg.Enabled, fmt.Sprintf("Enable source %s", name))
		cfg.Sources[name] = sourceCfg
	}

	return fs.Parse(args)
}

func normalize(c *Config) {
	c.Topic = strings.TrimSpace(c.Topic)
	if c.MaxWorkers < 1 {
		c.MaxWorkers = 1
	}
	if c.TimeoutS < 0 {
		c.TimeoutS = 0
	}
	if c.OutputFormat != "json" {
		c.OutputFormat = "table"
	}
	if c.Dedup.Threshold <= 0 || c.Dedup.Threshold > 1 {
		c.Dedup.Threshold = 0.80
	}
	if len(c.FeedURLs) > 0 {
		if sourceCfg, ok := c.Sources["curated-feed"]; ok {
			if sourceCfg.Custom == nil {
				sourceCfg.Custom = make(map[string]string)
			}
			sourceCfg.Custom["feed_urls"] = strings.Join(c.FeedURLs, ",")
			c.Sources["curated-feed"] = sourceCfg
		}
	}
}

// Timeout returns TimeoutS as a time.Duration, or zero when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutS) * time.Second
}

// ToJSON serializes the configuration for debugging.
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func envKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
