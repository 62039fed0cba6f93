package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tpts/cmd"
	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/jobs"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPolicy_EmptyPathGivesDefaults(t *testing.T) {
	p, err := cmd.LoadPolicy("")
	require.NoError(t, err)

	assert.Equal(t, commands.DefaultPolicy(), p.Commands())
	assert.Equal(t, jobs.DefaultSchedules(), p.Schedules())
	assert.NoError(t, p.Validate())
}

func TestLoadPolicy_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeFile(t, "policy.yaml", `
dispatch:
  response_timeout: 90s
  max_attempts: 5
  ranking:
    load: 2
group:
  discount_rate: 0.2
  pickup_share: "0.12"
settlement:
  holding_period: 24h
sweeps:
  clearance: "@every 10m"
  batch_size: 50
`)

	p, err := cmd.LoadPolicy(path)
	require.NoError(t, err)

	c := p.Commands()
	assert.Equal(t, 90*time.Second, c.Dispatch.ResponseTimeout)
	assert.Equal(t, 5, c.Dispatch.MaxAttempts)
	assert.InDelta(t, 2.0, c.Dispatch.Ranking.Load, 1e-9)
	assert.True(t, decimal.RequireFromString("0.2").Equal(c.Group.DiscountRate))
	assert.True(t, decimal.RequireFromString("0.12").Equal(c.Group.Shares.Pickup))
	assert.Equal(t, 24*time.Hour, c.Settlement.HoldingPeriod)
	assert.Equal(t, 50, c.SweepBatchSize)

	defaults := commands.DefaultPolicy()
	assert.Equal(t, defaults.Group.TargetMembers, c.Group.TargetMembers)
	assert.True(t, defaults.Pricing.BaseFare.Equal(c.Pricing.BaseFare))
	assert.True(t, defaults.Group.Shares.Delivery.Equal(c.Group.Shares.Delivery))

	s := p.Schedules()
	assert.Equal(t, "@every 10m", s.Clearance)
	assert.Equal(t, jobs.DefaultSchedules().AssignmentTimeout, s.AssignmentTimeout)
}

func TestLoadPolicy_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "policy.yaml", `
dispatch:
  max_attempts: 0
group:
  min_members: 9
  target_members: 3
settlement:
  min_commission: 0.3
  max_commission: 0.1
`)

	_, err := cmd.LoadPolicy(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestLoadPolicy_Errors(t *testing.T) {
	_, err := cmd.LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = cmd.LoadPolicy(writeFile(t, "broken.yaml", "dispatch: [unclosed"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("OTP_WINDOW", "5m")

	env := writeFile(t, ".env", "DB_NAME=tpts\nREDIS_DB=2\nHTTP_PORT=7070\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_NAME")
		_ = os.Unsetenv("REDIS_DB")
	})
	c, err := cmd.LoadConfig(env)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.HTTPPort, "the environment wins over the file")
	assert.Equal(t, "tpts", c.DBName)
	assert.Equal(t, 2, c.RedisDB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, c.OtpWindow)
	assert.Equal(t, int64(5), c.OtpAttempts)
	assert.Contains(t, c.DSN(), "dbname=tpts")
}

func TestLoadConfig_MissingFileAndBadNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "two")

	_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "absent.env"))

	assert.ErrorContains(t, err, "REDIS_DB")
}
