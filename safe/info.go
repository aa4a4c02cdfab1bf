package safe

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/tokens"
)

var log = logrus.WithField("component", "safe")

// Safe is a snapshot of a Safe's on-chain state.
type Safe struct {
	Address       string   `json:"address"`
	ChainID       uint64   `json:"chainId"`
	Version       string   `json:"version"`
	Owners        []string `json:"owners"`
	Threshold     uint64   `json:"threshold"`
	Nonce         string   `json:"nonce"`
	NativeBalance string   `json:"nativeBalance"`
	MasterCopy    string   `json:"masterCopy"`
}

// FetchSafe reads everything in Safe from chain.
func FetchSafe(address string, network networks.Network, reader ContractReader, resolver *contracts.Resolver) (*Safe, error) {
	sc, err := LoadSafeContract(address, network, reader, resolver)
	if err != nil {
		return nil, err
	}

	res := &Safe{
		Address: address,
		ChainID: network.GetChainID(),
		Version: sc.Version,
	}

	var g errgroup.Group
	g.Go(func() error {
		owners, err := sc.Owners()
		if err != nil {
			return fmt.Errorf("couldn't read owners: %w", err)
		}
		res.Owners = owners
		return nil
	})
	g.Go(func() error {
		threshold, err := sc.Threshold()
		if err != nil {
			return fmt.Errorf("couldn't read threshold: %w", err)
		}
		res.Threshold = threshold
		return nil
	})
	g.Go(func() error {
		nonce, err := sc.Nonce()
		if err != nil {
			return fmt.Errorf("couldn't read nonce: %w", err)
		}
		res.Nonce = nonce.String()
		return nil
	})
	g.Go(func() error {
		balance, err := reader.GetBalance(address)
		if err != nil {
			return fmt.Errorf("couldn't read balance: %w", err)
		}
		res.NativeBalance = balance.String()
		return nil
	})
	g.Go(func() error {
		mc, err := MasterCopyOf(address, reader)
		if err != nil {
			return fmt.Errorf("couldn't read master copy: %w", err)
		}
		res.MasterCopy = mc.Hex()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

const maxConcurrentBalanceReads = 8

// FetchTokenBalances reads the balance of every token in list held by
// safeAddress. The native token is read with eth_getBalance. Tokens whose
// balance can't be read are logged and left out.
func FetchTokenBalances(safeAddress string, list *tokens.TokenList, reader ContractReader) []tokens.Balance {
	all := list.Tokens()
	results := make([]*big.Int, len(all))

	var g errgroup.Group
	g.SetLimit(maxConcurrentBalanceReads)
	for i := range all {
		t := all[i]
		g.Go(func() error {
			var (
				b   *big.Int
				err error
			)
			if strings.EqualFold(t.Address, tokens.NativeTokenAddress) {
				b, err = reader.GetBalance(safeAddress)
			} else {
				b, err = reader.ERC20Balance(t.Address, safeAddress)
			}
			if err != nil {
				log.WithError(err).Warnf("couldn't read %s balance of %s", t.Symbol, safeAddress)
				return nil
			}
			results[i] = b
			return nil
		})
	}
	_ = g.Wait()

	balances := []tokens.Balance{}
	for i, b := range results {
		if b == nil {
			continue
		}
		balances = append(balances, tokens.Balance{
			TokenAddress: all[i].Address,
			TokenBalance: b.String(),
		})
	}
	return balances
}
