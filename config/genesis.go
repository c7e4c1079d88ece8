package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common"
)

// GenesisFromJSON is the layout of a genesis accounts file
type GenesisFromJSON struct {
	// Accounts funded or deployed when the node starts
	Genesis []genesisAccountFromJSON `json:"genesis"`
}

type genesisAccountFromJSON struct {
	// Address of the account
	Address string `json:"address"`
	// Balance in wei, decimal or 0x prefixed hex
	Balance string `json:"balance"`
	// Byte code of the contract
	Bytecode string `json:"bytecode"`
	// Initial storage of the contract
	Storage map[string]string `json:"storage"`
	// Name of the contract, only informative
	ContractName string `json:"contractName"`
}

// LoadGenesisFile loads the accounts of a genesis file
func LoadGenesisFile(cfgPath string) ([]node.GenesisAccount, error) {
	jsonStr, err := LoadGenesisFileAsString(cfgPath)
	if err != nil {
		return nil, err
	}
	return LoadGenesisFromJSONString(jsonStr)
}

// LoadGenesisFileAsString loads the genesis file as a string
func LoadGenesisFileAsString(cfgPath string) (string, error) {
	if cfgPath == "" {
		return "", errors.New("genesis file not provided")
	}
	f, err := os.Open(cfgPath) //nolint:gosec
	if err != nil {
		return "", err
	}
	defer func() {
		err := f.Close()
		if err != nil {
			log.Error(err)
		}
	}()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LoadGenesisFromJSONString loads the genesis accounts from a JSON string
func LoadGenesisFromJSONString(jsonStr string) ([]node.GenesisAccount, error) {
	var cfgJSON GenesisFromJSON
	if err := json.Unmarshal([]byte(jsonStr), &cfgJSON); err != nil {
		return nil, err
	}

	accounts := make([]node.GenesisAccount, 0, len(cfgJSON.Genesis))
	for _, account := range cfgJSON.Genesis {
		if !common.IsHexAddress(account.Address) {
			return nil, fmt.Errorf("invalid genesis address %q", account.Address)
		}
		balance := account.Balance
		if balance == "" {
			balance = "0"
		}
		if account.ContractName != "" {
			log.Debugf("genesis contract %s at %s", account.ContractName, account.Address)
		}
		accounts = append(accounts, node.GenesisAccount{
			Address: common.HexToAddress(account.Address),
			Balance: balance,
			Code:    account.Bytecode,
			Storage: account.Storage,
		})
	}
	return accounts, nil
}
