package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/jsonrpc"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/metrics"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const (
	// FlagCfg is the flag for the configuration file
	FlagCfg = "cfg"
	// FlagGenesis is the flag for the genesis accounts file
	FlagGenesis = "genesis"

	// EnvPrefix of the environment variables overriding the configuration
	EnvPrefix = "ZKSYNC_NODE"
)

/*
Config represents the configuration of the whole node

The file is TOML formatted, see DefaultValues for every section. Every value
can be overridden with an environment variable named after its path, e.g.
ZKSYNC_NODE_RPC_PORT=8012.
*/
type Config struct {
	// Log configures the logger
	Log log.Config `mapstructure:"Log"`
	// RPC configures the JSON-RPC server
	RPC jsonrpc.Config `mapstructure:"RPC"`
	// Node configures the chain: gas prices, sealing, rich accounts and output knobs
	Node node.Config `mapstructure:"Node"`
	// Fork configures the client of the forked network
	Fork fork.Config `mapstructure:"Fork"`
	// Cache configures where fork responses are kept
	Cache fork.CacheConfig `mapstructure:"Cache"`
	// Metrics configures the prometheus endpoint
	Metrics metrics.Config `mapstructure:"Metrics"`
}

// Default parses the default configuration values.
func Default() (*Config, error) {
	v, err := defaultViper()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBuffer([]byte(DefaultValues))); err != nil {
		return nil, err
	}
	return v, nil
}

// Load loads the configuration: the defaults, then the file given with --cfg,
// then the environment. Genesis accounts of the --genesis file are appended.
func Load(ctx *cli.Context) (*Config, error) {
	cfg, err := LoadFile(ctx.String(FlagCfg))
	if err != nil {
		return nil, err
	}

	if genesisPath := ctx.String(FlagGenesis); genesisPath != "" {
		accounts, err := LoadGenesisFile(genesisPath)
		if err != nil {
			return nil, err
		}
		cfg.Node.GenesisAccounts = append(cfg.Node.GenesisAccounts, accounts...)
	}
	return cfg, nil
}

// LoadFile loads the defaults overridden by configFilePath, if not empty, and the environment.
func LoadFile(configFilePath string) (*Config, error) {
	v, err := defaultViper()
	if err != nil {
		return nil, err
	}

	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)
	}
	v.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.SetEnvPrefix(EnvPrefix)

	if configFilePath != "" {
		err = v.MergeInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				log.Infof("config file not found")
			} else {
				log.Infof("error reading config file: %v", err)
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
