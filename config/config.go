package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config carries the deployment parameters for the protocol modules. Big
// amounts travel as decimal strings so precision survives TOML; addresses are
// 0x-prefixed hex.
type Config struct {
	Token     TokenConfig     `toml:"token"`
	Farming   FarmingConfig   `toml:"farming"`
	Treasurer TreasurerConfig `toml:"treasurer"`
	IFO       IFOConfig       `toml:"ifo"`
}

type TokenConfig struct {
	Name     string `toml:"Name"`
	Symbol   string `toml:"Symbol"`
	Decimals uint8  `toml:"Decimals"`
	Owner    string `toml:"Owner"`
	Cap      string `toml:"Cap"`
}

type FarmingConfig struct {
	Owner           string `toml:"Owner"`
	Dev             string `toml:"Dev"`
	FeeCollector    string `toml:"FeeCollector"`
	StartTime       int64  `toml:"StartTime"`
	DurationSeconds int64  `toml:"DurationSeconds"`
	RatePerSecond   string `toml:"RatePerSecond"`
}

type TreasurerConfig struct {
	Owner               string `toml:"Owner"`
	LockedBps           uint64 `toml:"LockedBps"`
	ExpressBurnBps      uint64 `toml:"ExpressBurnBps"`
	LockupWeeks         uint64 `toml:"LockupWeeks"`
	UnlockMomentSeconds int64  `toml:"UnlockMomentSeconds"`
}

type IFOConfig struct {
	Owner          string `toml:"Owner"`
	StartTime      int64  `toml:"StartTime"`
	EndTime        int64  `toml:"EndTime"`
	OfferingAmount string `toml:"OfferingAmount"`
	RaisingAmount  string `toml:"RaisingAmount"`
}

const (
	minLockupWeeks = 4
	maxLockupWeeks = 24
	weekSeconds    = 7 * 86400
	maxBps         = 10000
)

// Load reads and validates the configuration at path. Unknown keys are
// rejected so typos fail loudly instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the same bounds the modules
// enforce at construction.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token.Name) == "" || strings.TrimSpace(c.Token.Symbol) == "" {
		return fmt.Errorf("token: name and symbol are required")
	}
	if _, err := parseAddress(c.Token.Owner); err != nil {
		return fmt.Errorf("token: owner: %w", err)
	}
	if _, err := parseAmount(c.Token.Cap); err != nil {
		return fmt.Errorf("token: cap: %w", err)
	}

	for field, value := range map[string]string{
		"owner":        c.Farming.Owner,
		"dev":          c.Farming.Dev,
		"feeCollector": c.Farming.FeeCollector,
	} {
		if _, err := parseAddress(value); err != nil {
			return fmt.Errorf("farming: %s: %w", field, err)
		}
	}
	if c.Farming.StartTime <= 0 {
		return fmt.Errorf("farming: start time must be positive")
	}
	if c.Farming.DurationSeconds <= 0 {
		return fmt.Errorf("farming: duration must be positive")
	}
	rate, err := parseAmount(c.Farming.RatePerSecond)
	if err != nil {
		return fmt.Errorf("farming: rate: %w", err)
	}
	if rate.Sign() <= 0 {
		return fmt.Errorf("farming: rate must be positive")
	}

	if _, err := parseAddress(c.Treasurer.Owner); err != nil {
		return fmt.Errorf("treasurer: owner: %w", err)
	}
	if c.Treasurer.LockedBps > maxBps {
		return fmt.Errorf("treasurer: locked share above %d bps", maxBps)
	}
	if c.Treasurer.ExpressBurnBps > maxBps {
		return fmt.Errorf("treasurer: express burn above %d bps", maxBps)
	}
	if c.Treasurer.LockupWeeks < minLockupWeeks || c.Treasurer.LockupWeeks > maxLockupWeeks {
		return fmt.Errorf("treasurer: lockup weeks outside [%d,%d]", minLockupWeeks, maxLockupWeeks)
	}
	if c.Treasurer.UnlockMomentSeconds < 0 || c.Treasurer.UnlockMomentSeconds >= weekSeconds {
		return fmt.Errorf("treasurer: unlock moment must fall within one week")
	}

	if _, err := parseAddress(c.IFO.Owner); err != nil {
		return fmt.Errorf("ifo: owner: %w", err)
	}
	if c.IFO.EndTime <= c.IFO.StartTime {
		return fmt.Errorf("ifo: sale window is empty or inverted")
	}
	offering, err := parseAmount(c.IFO.OfferingAmount)
	if err != nil {
		return fmt.Errorf("ifo: offering amount: %w", err)
	}
	raising, err := parseAmount(c.IFO.RaisingAmount)
	if err != nil {
		return fmt.Errorf("ifo: raising amount: %w", err)
	}
	if offering.Sign() <= 0 || raising.Sign() <= 0 {
		return fmt.Errorf("ifo: amounts must be positive")
	}
	return nil
}

// TokenOwner returns the parsed token owner address. Validate must have
// succeeded first.
func (c *Config) TokenOwner() common.Address { return mustAddress(c.Token.Owner) }

// TokenCap returns the parsed token supply cap.
func (c *Config) TokenCap() *big.Int { return mustAmount(c.Token.Cap) }

// FarmingRate returns the parsed emission rate per second.
func (c *Config) FarmingRate() *big.Int { return mustAmount(c.Farming.RatePerSecond) }

// IFOOfferingAmount returns the parsed offering amount.
func (c *Config) IFOOfferingAmount() *big.Int { return mustAmount(c.IFO.OfferingAmount) }

// IFORaisingAmount returns the parsed raise target.
func (c *Config) IFORaisingAmount() *big.Int { return mustAmount(c.IFO.RaisingAmount) }

func parseAddress(value string) (common.Address, error) {
	trimmed := strings.TrimSpace(value)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address %q", value)
	}
	addr := common.HexToAddress(trimmed)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("zero address")
	}
	return addr, nil
}

func mustAddress(value string) common.Address {
	addr, err := parseAddress(value)
	if err != nil {
		panic(err)
	}
	return addr
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("empty amount")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", value)
	}
	return amount, nil
}

func mustAmount(value string) *big.Int {
	amount, err := parseAmount(value)
	if err != nil {
		panic(err)
	}
	return amount
}
