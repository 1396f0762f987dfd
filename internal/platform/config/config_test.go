package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerox/internal/platform/config"
)

func TestDefaultPolicy(t *testing.T) {
	policy := config.DefaultPolicy()
	require.NoError(t, policy.Validate())
	assert.Equal(t, 0.60, policy.DecisionMatrix.BlockIntentThreshold)
	assert.Equal(t, 0.40, policy.DecisionMatrix.ApproveIntentThreshold)
	assert.Equal(t, 0.70, policy.DecisionMatrix.ApproveCapacityThreshold)
	assert.Equal(t, 5000.0, policy.RiskConstraints.MaxExpectedLoss)
	assert.Equal(t, 0.70, policy.RiskConstraints.LGD)
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Policy)
	}{
		{"threshold above one", func(p *config.Policy) { p.DecisionMatrix.BlockIntentThreshold = 1.5 }},
		{"negative threshold", func(p *config.Policy) { p.DecisionMatrix.ApproveIntentThreshold = -0.1 }},
		{"approve above block", func(p *config.Policy) {
			p.DecisionMatrix.ApproveIntentThreshold = 0.8
			p.DecisionMatrix.BlockIntentThreshold = 0.6
		}},
		{"zero lgd", func(p *config.Policy) { p.RiskConstraints.LGD = 0 }},
		{"lgd above one", func(p *config.Policy) { p.RiskConstraints.LGD = 1.1 }},
		{"negative budget", func(p *config.Policy) { p.RiskConstraints.MaxExpectedLoss = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := config.DefaultPolicy()
			tt.mutate(&policy)
			assert.Error(t, policy.Validate())
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	t.Run("reads yaml overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
decision_matrix:
  block_intent_threshold: 0.55
risk_constraints:
  max_expected_loss: 10000
`), 0o600))

		policy, err := config.LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, 0.55, policy.DecisionMatrix.BlockIntentThreshold)
		assert.Equal(t, 10000.0, policy.RiskConstraints.MaxExpectedLoss)
		// Unset values keep the defaults.
		assert.Equal(t, 0.70, policy.RiskConstraints.LGD)
	})

	t.Run("rejects invalid policies", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("risk_constraints:\n  lgd: 1.5\n"), 0o600))

		_, err := config.LoadPolicy(path)
		assert.Error(t, err)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := config.LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("AEROX_ADDR", ":9090")
	t.Setenv("AEROX_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("AEROX_NARRATOR_TIMEOUT", "3s")
	t.Setenv("AEROX_SESSION_TTL", "1h")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "aerox.decision.events", cfg.Kafka.Topic)
	assert.Equal(t, 3*time.Second, cfg.Narrator.Timeout)
	assert.Equal(t, time.Hour, cfg.Redis.SessionTTL)
	require.NoError(t, cfg.Policy.Validate())
}
