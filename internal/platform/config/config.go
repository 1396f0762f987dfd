// Package config builds the process-wide configuration once at startup.
// Risk thresholds and constraints come from a YAML policy file; server,
// redis, kafka, and narrator settings come from the environment. Nothing
// in here is mutated after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	stringsutil "aerox/pkg/platform/strings"
)

// Config is the root configuration passed into main's wiring.
type Config struct {
	Addr string

	Redis    RedisConfig
	Kafka    KafkaConfig
	Narrator NarratorConfig
	Scorer   ScorerConfig

	Policy Policy
}

// RedisConfig configures the optional Redis-backed session store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SessionTTL   time.Duration
}

// KafkaConfig configures the decision audit event stream. Empty brokers
// means audit events are logged only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NarratorConfig configures the external language-model gateway. The
// timeout is deliberately short: the deterministic fallback must remain
// the fast path when the narrator misbehaves.
type NarratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ScorerConfig configures the external scoring service.
type ScorerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Policy holds the risk policy loaded from the YAML file: the decision
// matrix thresholds and the expected-loss constraints.
type Policy struct {
	DecisionMatrix  DecisionMatrix  `yaml:"decision_matrix"`
	RiskConstraints RiskConstraints `yaml:"risk_constraints"`
}

// DecisionMatrix holds the risk gate thresholds. All values are scores in
// [0,1]; the yellow band is implied by the gap between the approve and
// block thresholds.
type DecisionMatrix struct {
	BlockIntentThreshold     float64 `yaml:"block_intent_threshold"`
	ApproveIntentThreshold   float64 `yaml:"approve_intent_threshold"`
	ApproveCapacityThreshold float64 `yaml:"approve_capacity_threshold"`
}

// RiskConstraints holds the expected-loss budget parameters.
type RiskConstraints struct {
	MaxExpectedLoss float64 `yaml:"max_expected_loss"`
	LGD             float64 `yaml:"lgd"`
}

// DefaultPolicy returns the shipped policy values, used when no policy
// file is configured.
func DefaultPolicy() Policy {
	return Policy{
		DecisionMatrix: DecisionMatrix{
			BlockIntentThreshold:     0.60,
			ApproveIntentThreshold:   0.40,
			ApproveCapacityThreshold: 0.70,
		},
		RiskConstraints: RiskConstraints{
			MaxExpectedLoss: 5000,
			LGD:             0.70,
		},
	}
}

// Validate rejects policies that would make the engine misbehave rather
// than silently clamping them.
func (p Policy) Validate() error {
	m := p.DecisionMatrix
	checks := []struct {
		name  string
		value float64
	}{
		{"block_intent_threshold", m.BlockIntentThreshold},
		{"approve_intent_threshold", m.ApproveIntentThreshold},
		{"approve_capacity_threshold", m.ApproveCapacityThreshold},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", c.name, c.value)
		}
	}
	if m.ApproveIntentThreshold > m.BlockIntentThreshold {
		return fmt.Errorf("approve_intent_threshold %v exceeds block_intent_threshold %v",
			m.ApproveIntentThreshold, m.BlockIntentThreshold)
	}
	c := p.RiskConstraints
	if c.MaxExpectedLoss < 0 {
		return fmt.Errorf("max_expected_loss must be non-negative, got %v", c.MaxExpectedLoss)
	}
	if c.LGD <= 0 || c.LGD > 1 {
		return fmt.Errorf("lgd must be in (0,1], got %v", c.LGD)
	}
	return nil
}

// Load builds the full configuration from the environment, reading the
// policy file when AEROX_POLICY_FILE is set.
func Load() (Config, error) {
	cfg := Config{
		Addr: envOr("AEROX_ADDR", ":8080"),
		Redis: RedisConfig{
			URL:          os.Getenv("AEROX_REDIS_URL"),
			PoolSize:     envInt("AEROX_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("AEROX_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("AEROX_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("AEROX_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("AEROX_REDIS_WRITE_TIMEOUT", 3*time.Second),
			SessionTTL:   envDuration("AEROX_SESSION_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: stringsutil.DedupeAndTrim(strings.Split(os.Getenv("AEROX_KAFKA_BROKERS"), ",")),
			Topic:   envOr("AEROX_KAFKA_TOPIC", "aerox.decision.events"),
		},
		Narrator: NarratorConfig{
			BaseURL: os.Getenv("AEROX_NARRATOR_URL"),
			Timeout: envDuration("AEROX_NARRATOR_TIMEOUT", 8*time.Second),
		},
		Scorer: ScorerConfig{
			BaseURL: os.Getenv("AEROX_SCORER_URL"),
			Timeout: envDuration("AEROX_SCORER_TIMEOUT", 5*time.Second),
		},
		Policy: DefaultPolicy(),
	}

	if path := os.Getenv("AEROX_POLICY_FILE"); path != "" {
		policy, err := LoadPolicy(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Policy = policy
	}

	if err := cfg.Policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid policy: %w", err)
	}
	return cfg, nil
}

// LoadPolicy reads and validates a YAML policy file.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	return policy, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
