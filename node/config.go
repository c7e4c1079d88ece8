package node

import (
	"fmt"
	"math/big"
	"strings"

	configTypes "github.com/0xPolygon/zksync-test-node/config/types"
	"github.com/ethereum/go-ethereum/common"
)

// ShowCalls selects which calls are printed after a transaction runs
type ShowCalls string

// ShowCalls values
const (
	ShowCallsNone   ShowCalls = "none"
	ShowCallsUser   ShowCalls = "user"
	ShowCallsSystem ShowCalls = "system"
	ShowCallsAll    ShowCalls = "all"
)

// ShowStorageLogs selects which storage accesses are printed
type ShowStorageLogs string

// ShowStorageLogs values
const (
	ShowStorageLogsNone  ShowStorageLogs = "none"
	ShowStorageLogsRead  ShowStorageLogs = "read"
	ShowStorageLogsWrite ShowStorageLogs = "write"
	ShowStorageLogsAll   ShowStorageLogs = "all"
)

// ShowVMDetails toggles the VM statistics output
type ShowVMDetails string

// ShowVMDetails values
const (
	ShowVMDetailsNone ShowVMDetails = "none"
	ShowVMDetailsAll  ShowVMDetails = "all"
)

// ShowGasDetails toggles the gas breakdown output
type ShowGasDetails string

// ShowGasDetails values
const (
	ShowGasDetailsNone ShowGasDetails = "none"
	ShowGasDetailsAll  ShowGasDetails = "all"
)

func parseKnob[T ~string](value string, allowed ...T) (T, error) {
	for _, a := range allowed {
		if strings.EqualFold(value, string(a)) {
			return a, nil
		}
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	var zero T
	return zero, fmt.Errorf("unknown value %s - expected one of %s", value, strings.Join(names, "|"))
}

// ParseShowCalls parses none|user|system|all
func ParseShowCalls(v string) (ShowCalls, error) {
	return parseKnob(v, ShowCallsNone, ShowCallsUser, ShowCallsSystem, ShowCallsAll)
}

// ParseShowStorageLogs parses none|read|write|all
func ParseShowStorageLogs(v string) (ShowStorageLogs, error) {
	return parseKnob(v, ShowStorageLogsNone, ShowStorageLogsRead, ShowStorageLogsWrite, ShowStorageLogsAll)
}

// ParseShowVMDetails parses none|all
func ParseShowVMDetails(v string) (ShowVMDetails, error) {
	return parseKnob(v, ShowVMDetailsNone, ShowVMDetailsAll)
}

// ParseShowGasDetails parses none|all
func ParseShowGasDetails(v string) (ShowGasDetails, error) {
	return parseKnob(v, ShowGasDetailsNone, ShowGasDetailsAll)
}

// displayName renders a knob the way the config namespace reports it, e.g. "User"
func displayName[T ~string](v T) string {
	s := string(v)
	if s == "" {
		return "None"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Knobs are the output settings that can be changed while the node runs.
// They only change what gets logged.
type Knobs struct {
	ShowCalls       ShowCalls       `mapstructure:"ShowCalls"`
	ShowOutputs     bool            `mapstructure:"ShowOutputs"`
	ShowStorageLogs ShowStorageLogs `mapstructure:"ShowStorageLogs"`
	ShowVMDetails   ShowVMDetails   `mapstructure:"ShowVMDetails"`
	ShowGasDetails  ShowGasDetails  `mapstructure:"ShowGasDetails"`
	ResolveHashes   bool            `mapstructure:"ResolveHashes"`
}

// GenesisAccount is an extra account funded at startup
type GenesisAccount struct {
	Address common.Address `mapstructure:"Address"`
	// Balance in wei, decimal or 0x prefixed hex
	Balance string `mapstructure:"Balance"`
	// Code deployed at the address, 0x prefixed hex
	Code string `mapstructure:"Code"`
	// Storage slots of the account, both sides 0x prefixed hex
	Storage map[string]string `mapstructure:"Storage"`
}

// InteropConfig configures the cross chain message writer
type InteropConfig struct {
	Enabled bool `mapstructure:"Enabled"`
	// Dir holding the message files and the lock, defaults to <tmp>/interop
	Dir string `mapstructure:"Dir"`
}

// Config of the node
type Config struct {
	// ChainID of the node, TestNodeNetworkID when zero and not forking
	ChainID uint64 `mapstructure:"ChainID"`
	// L1GasPrice in wei used for fee estimation when not forking
	L1GasPrice uint64 `mapstructure:"L1GasPrice"`
	// L2GasPrice in wei, the base fee of every block
	L2GasPrice uint64 `mapstructure:"L2GasPrice"`
	// NoMining disables automatic sealing, blocks are only mined on request
	NoMining bool `mapstructure:"NoMining"`
	// BlockTime seals blocks at a fixed interval instead of on every transaction
	BlockTime configTypes.Duration `mapstructure:"BlockTime"`
	// AutoImpersonate accepts transactions of every account without checking signatures
	AutoImpersonate bool `mapstructure:"AutoImpersonate"`
	// RichAccountBalance in wei given to every rich account, RichBalance when empty
	RichAccountBalance string           `mapstructure:"RichAccountBalance"`
	GenesisAccounts    []GenesisAccount `mapstructure:"GenesisAccounts"`
	Knobs              Knobs            `mapstructure:"Knobs"`
	Interop            InteropConfig    `mapstructure:"Interop"`
}

func (c Config) withDefaults() Config {
	if c.L1GasPrice == 0 {
		c.L1GasPrice = L1GasPrice
	}
	if c.L2GasPrice == 0 {
		c.L2GasPrice = L2GasPrice
	}
	if c.Knobs.ShowCalls == "" {
		c.Knobs.ShowCalls = ShowCallsNone
	}
	if c.Knobs.ShowStorageLogs == "" {
		c.Knobs.ShowStorageLogs = ShowStorageLogsNone
	}
	if c.Knobs.ShowVMDetails == "" {
		c.Knobs.ShowVMDetails = ShowVMDetailsNone
	}
	if c.Knobs.ShowGasDetails == "" {
		c.Knobs.ShowGasDetails = ShowGasDetailsNone
	}
	return c
}

// normalize parses every knob, accepting any case
func (k Knobs) normalize() (Knobs, error) {
	var err error
	if k.ShowCalls, err = ParseShowCalls(string(k.ShowCalls)); err != nil {
		return k, err
	}
	if k.ShowStorageLogs, err = ParseShowStorageLogs(string(k.ShowStorageLogs)); err != nil {
		return k, err
	}
	if k.ShowVMDetails, err = ParseShowVMDetails(string(k.ShowVMDetails)); err != nil {
		return k, err
	}
	if k.ShowGasDetails, err = ParseShowGasDetails(string(k.ShowGasDetails)); err != nil {
		return k, err
	}
	return k, nil
}

// Validate checks the values that cannot be checked while decoding
func (c Config) Validate() error {
	c = c.withDefaults()
	if _, err := c.Knobs.normalize(); err != nil {
		return err
	}
	if c.BlockTime.Duration < 0 {
		return fmt.Errorf("invalid block time %s", c.BlockTime.Duration)
	}
	if _, err := c.richBalance(); err != nil {
		return err
	}
	for _, acc := range c.GenesisAccounts {
		if _, err := parseWei(acc.Balance); err != nil {
			return fmt.Errorf("invalid balance of genesis account %s: %w", acc.Address, err)
		}
	}
	return nil
}

func (c Config) richBalance() (*big.Int, error) {
	if c.RichAccountBalance == "" {
		return new(big.Int).Set(RichBalance), nil
	}
	return parseWei(c.RichAccountBalance)
}

func parseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
