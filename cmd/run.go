package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/0xPolygon/zksync-test-node/config"
	configTypes "github.com/0xPolygon/zksync-test-node/config/types"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/jsonrpc"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func runCmd(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	cache, err := fork.NewCache(cliCtx.Context, cfg.Cache)
	if err != nil {
		return err
	}
	return start(cliCtx.Context, cfg, nil, cache, nil)
}

func forkCmd(cliCtx *cli.Context) error {
	network := cliCtx.Args().First()
	if network == "" {
		return errors.New("missing network to fork from")
	}
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	cache, err := fork.NewCache(cliCtx.Context, cfg.Cache)
	if err != nil {
		return err
	}

	var forkAt *uint64
	if cliCtx.IsSet(flagForkAt) {
		n := cliCtx.Uint64(flagForkAt)
		forkAt = &n
	}
	details, err := fork.NewDetailsFromNetwork(cliCtx.Context, network, forkAt, cfg.Fork, cache)
	if err != nil {
		return err
	}
	return start(cliCtx.Context, cfg, details, cache, nil)
}

func replayTxCmd(cliCtx *cli.Context) error {
	network, tx := cliCtx.Args().Get(0), cliCtx.Args().Get(1)
	if network == "" || tx == "" {
		return errors.New("usage: replay_tx <network> <tx hash>")
	}
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	cache, err := fork.NewCache(cliCtx.Context, cfg.Cache)
	if err != nil {
		return err
	}

	txHash := common.HexToHash(tx)
	details, err := fork.NewDetailsFromTx(cliCtx.Context, network, txHash, cfg.Fork, cache)
	if err != nil {
		return err
	}
	return start(cliCtx.Context, cfg, details, cache, func(ctx context.Context, n *node.Node) error {
		return replayTx(ctx, n, details, txHash)
	})
}

// replayTx runs a transaction of the forked network as an impersonated one.
func replayTx(ctx context.Context, n *node.Node, details *fork.Details, txHash common.Hash) error {
	tx, err := details.Source.GetTransactionByHash(ctx, txHash)
	if err != nil {
		return fmt.Errorf("failed to get transaction %s: %w", txHash, err)
	}

	nonce := tx.Nonce
	req := types.CallRequest{
		From:  &tx.From,
		To:    tx.To,
		Gas:   tx.Gas,
		Value: tx.Value,
		Input: &tx.Input,
		Nonce: &nonce,
	}
	if tx.MaxFeePerGas != nil {
		req.MaxFeePerGas = tx.MaxFeePerGas
		req.MaxPriorityFeePerGas = tx.MaxPriorityFeePerGas
	} else {
		req.GasPrice = tx.GasPrice
	}

	n.ImpersonateAccount(tx.From)
	defer n.StopImpersonatingAccount(tx.From)
	hash, err := n.SendTransaction(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to replay transaction %s: %w", txHash, err)
	}
	log.Infof("replayed transaction %s as %s", txHash, hash)
	return nil
}

func start(ctx context.Context, cfg *config.Config, details *fork.Details, cache fork.Cache, afterStart func(context.Context, *node.Node) error) error {
	n, err := node.New(ctx, cfg.Node, details)
	if err != nil {
		return err
	}
	srv, err := jsonrpc.NewServer(cfg.RPC, cfg.Metrics, n, cfg.Fork, cache)
	if err != nil {
		return err
	}

	go n.Start()
	defer n.Stop()

	if afterStart != nil {
		if err := afterStart(ctx, n); err != nil {
			return err
		}
	}

	printRichAccounts(n)
	printSettings(cfg, details)

	errC := make(chan error, 1)
	go func() {
		errC <- srv.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-signals:
		log.Infof("received %s, shutting down", sig)
	case err := <-errC:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func printRichAccounts(n *node.Node) {
	fmt.Println()
	fmt.Println("Rich Accounts")
	fmt.Println("========================")
	for i, wallet := range node.RichWallets {
		fmt.Printf("Account #%d: %s\n", i, wallet.Address)
		fmt.Printf("Private Key: %s\n", wallet.PrivateKey)
		fmt.Println()
	}
	fmt.Printf("Chain ID: %d\n", n.ChainID())
}

func printSettings(cfg *config.Config, details *fork.Details) {
	if details != nil {
		fmt.Printf("Forked from %s at miniblock %d (L1 batch %d)\n", details.URL, details.L2MiniblockNumber, details.L1BatchNumber)
	}
	fmt.Printf("L1 gas price: %d wei, L2 gas price: %d wei\n", cfg.Node.L1GasPrice, cfg.Node.L2GasPrice)
	fmt.Printf("Cache: %s\n", cfg.Cache.Type)
	fmt.Printf("Listening on %s:%d\n", cfg.RPC.Host, cfg.RPC.Port)
}

// loadConfig loads the configuration, applies the command line flags on top
// and initializes the logger.
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cliCtx)
	if err != nil {
		return nil, err
	}
	applyFlags(cliCtx, cfg)
	log.Init(cfg.Log)
	return cfg, nil
}

func applyFlags(cliCtx *cli.Context, cfg *config.Config) {
	if cliCtx.IsSet(flagPort) {
		cfg.RPC.Port = cliCtx.Int(flagPort)
	}
	if cliCtx.IsSet(flagChainID) {
		cfg.Node.ChainID = cliCtx.Uint64(flagChainID)
	}
	if cliCtx.IsSet(flagShowCalls) {
		cfg.Node.Knobs.ShowCalls = node.ShowCalls(strings.ToLower(cliCtx.String(flagShowCalls)))
	}
	if cliCtx.IsSet(flagShowOutputs) {
		cfg.Node.Knobs.ShowOutputs = cliCtx.Bool(flagShowOutputs)
	}
	if cliCtx.IsSet(flagShowStorageLogs) {
		cfg.Node.Knobs.ShowStorageLogs = node.ShowStorageLogs(strings.ToLower(cliCtx.String(flagShowStorageLogs)))
	}
	if cliCtx.IsSet(flagShowVMDetails) {
		cfg.Node.Knobs.ShowVMDetails = node.ShowVMDetails(strings.ToLower(cliCtx.String(flagShowVMDetails)))
	}
	if cliCtx.IsSet(flagShowGasDetails) {
		cfg.Node.Knobs.ShowGasDetails = node.ShowGasDetails(strings.ToLower(cliCtx.String(flagShowGasDetails)))
	}
	if cliCtx.IsSet(flagResolveHashes) {
		cfg.Node.Knobs.ResolveHashes = cliCtx.Bool(flagResolveHashes)
	}
	if cliCtx.IsSet(flagLog) {
		cfg.Log.Level = cliCtx.String(flagLog)
	}
	if cliCtx.IsSet(flagLogFilePath) {
		cfg.Log.Outputs = append(cfg.Log.Outputs, cliCtx.String(flagLogFilePath))
	}
	if cliCtx.IsSet(flagCache) {
		cfg.Cache.Type = fork.CacheType(cliCtx.String(flagCache))
	}
	if cliCtx.IsSet(flagResetCache) {
		cfg.Cache.Reset = cliCtx.Bool(flagResetCache)
	}
	if cliCtx.IsSet(flagCacheDir) {
		cfg.Cache.Dir = cliCtx.String(flagCacheDir)
	}
	if cliCtx.IsSet(flagL1GasPrice) {
		cfg.Node.L1GasPrice = cliCtx.Uint64(flagL1GasPrice)
	}
	if cliCtx.IsSet(flagL2GasPrice) {
		cfg.Node.L2GasPrice = cliCtx.Uint64(flagL2GasPrice)
	}
	if cliCtx.IsSet(flagNoMining) {
		cfg.Node.NoMining = cliCtx.Bool(flagNoMining)
	}
	if cliCtx.IsSet(flagBlockTime) {
		cfg.Node.BlockTime = configTypes.NewDuration(cliCtx.Duration(flagBlockTime))
	}
	if cliCtx.IsSet(flagAutoImpersonate) {
		cfg.Node.AutoImpersonate = cliCtx.Bool(flagAutoImpersonate)
	}
	if cliCtx.IsSet(flagHealthCheckEndpoint) {
		cfg.RPC.HealthCheckEndpoint = cliCtx.Bool(flagHealthCheckEndpoint)
	}
}
