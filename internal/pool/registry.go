package pool

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// Pool identifies one liquidity pool the vault deploys funds into.
type Pool struct {
	Name          string
	Address       solana.PublicKey
	Token1Account solana.PublicKey
	Token1Symbol  string
	Token2Account solana.PublicKey
	Token2Symbol  string
	LpMint        solana.PublicKey
}

type poolEntry struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Token1Account string `json:"token1_account"`
	Token1Symbol  string `json:"token1_symbol"`
	Token2Account string `json:"token2_account"`
	Token2Symbol  string `json:"token2_symbol"`
	LpMint        string `json:"lp_mint"`
}

type registryFile struct {
	Pools []poolEntry `json:"pools"`
}

// LoadRegistry reads the pool list from a JSON config file.
func LoadRegistry(path string) ([]Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pools config: %v", err)
	}

	var file registryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pools config: %v", err)
	}

	pools := make([]Pool, 0, len(file.Pools))
	for _, entry := range file.Pools {
		pool, err := entry.parse()
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (e poolEntry) parse() (Pool, error) {
	if e.Name == "" {
		return Pool{}, fmt.Errorf("pool entry is missing a name")
	}
	address, err := solana.PublicKeyFromBase58(e.Address)
	if err != nil {
		return Pool{}, fmt.Errorf("pool %s: bad address: %v", e.Name, err)
	}
	token1, err := solana.PublicKeyFromBase58(e.Token1Account)
	if err != nil {
		return Pool{}, fmt.Errorf("pool %s: bad token1 account: %v", e.Name, err)
	}
	token2, err := solana.PublicKeyFromBase58(e.Token2Account)
	if err != nil {
		return Pool{}, fmt.Errorf("pool %s: bad token2 account: %v", e.Name, err)
	}
	lpMint, err := solana.PublicKeyFromBase58(e.LpMint)
	if err != nil {
		return Pool{}, fmt.Errorf("pool %s: bad lp mint: %v", e.Name, err)
	}
	return Pool{
		Name:          e.Name,
		Address:       address,
		Token1Account: token1,
		Token1Symbol:  e.Token1Symbol,
		Token2Account: token2,
		Token2Symbol:  e.Token2Symbol,
		LpMint:        lpMint,
	}, nil
}
