package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validConfig = `[token]
Name = "Reward Token"
Symbol = "RWD"
Decimals = 18
Owner = "0x00000000000000000000000000000000000000b1"
Cap = "750000000000000000000000000"

[farming]
Owner = "0x00000000000000000000000000000000000000b1"
Dev = "0x00000000000000000000000000000000000000d1"
FeeCollector = "0x00000000000000000000000000000000000000f1"
StartTime = 1700000000
DurationSeconds = 31536000
RatePerSecond = "40000000000000000000"

[treasurer]
Owner = "0x00000000000000000000000000000000000000b1"
LockedBps = 5000
ExpressBurnBps = 2000
LockupWeeks = 4
UnlockMomentSeconds = 259200

[ifo]
Owner = "0x00000000000000000000000000000000000000b1"
StartTime = 1700000000
EndTime = 1700086400
OfferingAmount = "1000000000000000000000"
RaisingAmount = "500000000000000000000"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	require.Equal(t, "RWD", cfg.Token.Symbol)
	require.Equal(t, uint8(18), cfg.Token.Decimals)
	require.Equal(t, byte(0xB1), cfg.TokenOwner()[19])
	require.Equal(t, "750000000000000000000000000", cfg.TokenCap().String())
	require.Equal(t, "40000000000000000000", cfg.FarmingRate().String())
	require.Equal(t, uint64(5000), cfg.Treasurer.LockedBps)
	require.Equal(t, "1000000000000000000000", cfg.IFOOfferingAmount().String())
	require.Equal(t, "500000000000000000000", cfg.IFORaisingAmount().String())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	contents := validConfig + "\n[farming2]\nBogus = 1\n"
	_, err := Load(writeConfig(t, contents))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys")
}

func TestValidateBounds(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, validConfig))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Treasurer.LockedBps = 10001
	require.ErrorContains(t, cfg.Validate(), "locked share")

	cfg = base()
	cfg.Treasurer.LockupWeeks = 3
	require.ErrorContains(t, cfg.Validate(), "lockup weeks")

	cfg = base()
	cfg.Treasurer.UnlockMomentSeconds = 7 * 86400
	require.ErrorContains(t, cfg.Validate(), "unlock moment")

	cfg = base()
	cfg.Farming.RatePerSecond = "0"
	require.ErrorContains(t, cfg.Validate(), "rate must be positive")

	cfg = base()
	cfg.Farming.Dev = "not-an-address"
	require.ErrorContains(t, cfg.Validate(), "dev")

	cfg = base()
	cfg.IFO.EndTime = cfg.IFO.StartTime
	require.ErrorContains(t, cfg.Validate(), "sale window")

	cfg = base()
	cfg.Token.Cap = "12.5"
	require.ErrorContains(t, cfg.Validate(), "cap")
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
