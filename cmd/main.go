package main

import (
	"os"

	testnode "github.com/0xPolygon/zksync-test-node"
	"github.com/0xPolygon/zksync-test-node/config"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/urfave/cli/v2"
)

const appName = "zksync-test-node"

const (
	flagPort                = "port"
	flagChainID             = "chain-id"
	flagShowCalls           = "show-calls"
	flagShowOutputs         = "show-outputs"
	flagShowStorageLogs     = "show-storage-logs"
	flagShowVMDetails       = "show-vm-details"
	flagShowGasDetails      = "show-gas-details"
	flagResolveHashes       = "resolve-hashes"
	flagLog                 = "log"
	flagLogFilePath         = "log-file-path"
	flagCache               = "cache"
	flagResetCache          = "reset-cache"
	flagCacheDir            = "cache-dir"
	flagL1GasPrice          = "l1-gas-price"
	flagL2GasPrice          = "l2-gas-price"
	flagNoMining            = "no-mining"
	flagBlockTime           = "block-time"
	flagAutoImpersonate     = "auto-impersonate"
	flagHealthCheckEndpoint = "health-check-endpoint"
	flagForkAt              = "fork-at"
)

var (
	configFileFlag = cli.StringFlag{
		Name:    config.FlagCfg,
		Aliases: []string{"c"},
		Usage:   "Configuration `FILE`",
	}
	genesisFlag = cli.StringFlag{
		Name:  config.FlagGenesis,
		Usage: "JSON `FILE` with extra accounts to fund or deploy at startup",
	}
	forkAtFlag = cli.Uint64Flag{
		Name:  flagForkAt,
		Usage: "Fork at the given miniblock `NUMBER` instead of the latest one",
	}
	nodeFlags = []cli.Flag{
		&configFileFlag,
		&genesisFlag,
		&cli.IntFlag{Name: flagPort, Usage: "Port to listen on"},
		&cli.Uint64Flag{Name: flagChainID, Usage: "Chain id of the node"},
		&cli.StringFlag{Name: flagShowCalls, Usage: "Show call debug information: none, user, system or all"},
		&cli.BoolFlag{Name: flagShowOutputs, Usage: "Show call output values"},
		&cli.StringFlag{Name: flagShowStorageLogs, Usage: "Show storage log information: none, read, write or all"},
		&cli.StringFlag{Name: flagShowVMDetails, Usage: "Show VM details information: none or all"},
		&cli.StringFlag{Name: flagShowGasDetails, Usage: "Show gas details information: none or all"},
		&cli.BoolFlag{Name: flagResolveHashes, Usage: "Try to resolve selectors and known addresses"},
		&cli.StringFlag{Name: flagLog, Usage: "Log level: debug, info, warn or error"},
		&cli.StringFlag{Name: flagLogFilePath, Usage: "Log file `PATH`, rotated"},
		&cli.StringFlag{Name: flagCache, Usage: "Cache of fork responses: none, memory, disk or sql"},
		&cli.BoolFlag{Name: flagResetCache, Usage: "Empty the fork cache on start"},
		&cli.StringFlag{Name: flagCacheDir, Usage: "Directory of the disk cache"},
		&cli.Uint64Flag{Name: flagL1GasPrice, Usage: "L1 gas price in wei"},
		&cli.Uint64Flag{Name: flagL2GasPrice, Usage: "L2 gas price in wei"},
		&cli.BoolFlag{Name: flagNoMining, Usage: "Only seal blocks on request"},
		&cli.DurationFlag{Name: flagBlockTime, Usage: "Seal blocks at this interval instead of on every transaction"},
		&cli.BoolFlag{Name: flagAutoImpersonate, Usage: "Accept transactions of every account without signatures"},
		&cli.BoolFlag{Name: flagHealthCheckEndpoint, Usage: "Serve /health"},
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "In-memory zkSync Era node for development and testing"
	app.Version = testnode.Version
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:   "run",
			Usage:  "Run a node starting from an empty genesis",
			Action: runCmd,
			Flags:  nodeFlags,
		},
		{
			Name:      "fork",
			Usage:     "Run a node forked from a network: mainnet, sepolia-testnet, goerli-testnet or an URL",
			ArgsUsage: "<network>",
			Action:    forkCmd,
			Flags:     append(append([]cli.Flag{}, nodeFlags...), &forkAtFlag),
		},
		{
			Name:      "replay_tx",
			Usage:     "Fork a network right before a transaction and replay it",
			ArgsUsage: "<network> <tx hash>",
			Action:    replayTxCmd,
			Flags:     nodeFlags,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}

func versionCmd(*cli.Context) error {
	testnode.PrintVersion(os.Stdout)
	return nil
}
