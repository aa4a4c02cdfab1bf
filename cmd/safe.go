package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	opscommon "github.com/tranvictor/safeops/common"
	"github.com/tranvictor/safeops/monitoring"
	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/safe"
	"github.com/tranvictor/safeops/state"
	"github.com/tranvictor/safeops/tokens"
)

var (
	SafeJSON       bool
	TokenListFile  string
	BalancesCached bool
	BalancesAll    bool
	Owners         []string
	Threshold      uint64
	SaltNonce      string
	PredictAddress bool
)

func safeCacheKey(network networks.Network, addr common.Address) string {
	return fmt.Sprintf("safe:%d:%s", network.GetChainID(), addr.Hex())
}

func balancesCacheKey(network networks.Network, addr common.Address) string {
	return fmt.Sprintf("balances:%d:%s", network.GetChainID(), addr.Hex())
}

// resolveSafeAddress parses "0x..." or "<short name>:0x...". The prefix, when
// present, selects the network instead of --network.
func resolveSafeAddress(input string) (common.Address, networks.Network, error) {
	short, addr, err := opscommon.ParsePrefixedAddress(input)
	if err != nil {
		return common.Address{}, nil, err
	}
	if short == "" {
		return addr, networks.CurrentNetwork(), nil
	}
	network, err := networks.GetNetworkByShortName(short)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("unknown chain prefix %q: %w", short, err)
	}
	return addr, network, nil
}

var safeInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Show version, owners, threshold, nonce and balance of a Safe",
	Long: `Reads a Safe from chain. The address may carry a chain prefix
(e.g. gno:0x...) to pick the network. When the chain can't be reached the
last cached snapshot is shown instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addr, network, err := resolveSafeAddress(args[0])
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		s, err := fetchSafe(addr, network)
		if err != nil {
			cached := &safe.Safe{}
			if !appCache.GetJSON(safeCacheKey(network, addr), cached) {
				appUI.Error("Couldn't read the Safe: %s", err)
				return
			}
			appUI.Warn("Couldn't read the Safe (%s), showing the cached snapshot.", err)
			s = cached
		} else if err := appCache.SetJSON(safeCacheKey(network, addr), s); err != nil {
			appUI.Warn("Couldn't cache the Safe: %s", err)
		}
		appTracker.TrackEvent("safe_info", "safe", "info", s.Version)

		if SafeJSON {
			if err := appUI.JSON(s); err != nil {
				appUI.Error("%s", err)
			}
			return
		}

		store := state.NewStore()
		store.SetChainID(network.GetChainID())
		store.SetTokens(tokens.NewTokenList(tokens.NativeToken(network)))
		store.SetSafe(s)

		appUI.Section(fmt.Sprintf("Safe %s", addr.Hex()))
		appUI.KeyValue([][2]string{
			{"Network", fmt.Sprintf("%s (%d)", network.GetName(), network.GetChainID())},
			{"Version", s.Version},
			{"Master copy", s.MasterCopy},
			{"Threshold", fmt.Sprintf("%d of %d", s.Threshold, len(s.Owners))},
			{"Nonce", s.Nonce},
			{"Balance", fmt.Sprintf("%s %s", state.NewSafeNativeBalanceSelector().Select(store), network.GetNativeTokenSymbol())},
		})
		rows := [][]string{}
		for i, owner := range state.NewSafeOwnersSelector().Select(store) {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), owner})
		}
		appUI.Table([]string{"#", "Owner"}, rows)
	},
}

func fetchSafe(addr common.Address, network networks.Network) (*safe.Safe, error) {
	r, err := newReader(network)
	if err != nil {
		return nil, err
	}
	stop := appUI.Spinner("Reading Safe from chain...")
	defer stop()
	return safe.FetchSafe(addr.Hex(), network, r, resolver)
}

func loadTokenList(network networks.Network, file string) (*tokens.TokenList, error) {
	list := tokens.NewTokenList()
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("couldn't read token list: %w", err)
		}
		list, err = tokens.ParseTokenList(content)
		if err != nil {
			return nil, err
		}
	}
	if _, found := list.Get(tokens.NativeTokenAddress); !found {
		list.Add(tokens.NativeToken(network))
	}
	return list, nil
}

var safeBalancesCmd = &cobra.Command{
	Use:   "balances <address>",
	Short: "Show the token balances of a Safe",
	Long: `Reads the Safe's balance of the native currency and of every token in the
--tokens list (a token list json document or a bare array of tokens).
With --cached the balances saved by the last run are shown without
touching the chain.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addr, network, err := resolveSafeAddress(args[0])
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		list, err := loadTokenList(network, TokenListFile)
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		var balances []tokens.Balance
		if BalancesCached {
			raw, _ := appCache.Get(balancesCacheKey(network, addr))
			balances = tokens.DecodeBalances([]byte(raw), monitoring.Default())
		} else {
			r, err := newReader(network)
			if err != nil {
				appUI.Error("%s", err)
				return
			}
			stop := appUI.Spinner(fmt.Sprintf("Reading %d token balances...", list.Len()))
			balances = safe.FetchTokenBalances(addr.Hex(), list, r)
			stop()
			if raw, err := json.Marshal(balances); err == nil {
				if err := appCache.Set(balancesCacheKey(network, addr), string(raw)); err != nil {
					appUI.Warn("Couldn't cache balances: %s", err)
				}
			}
		}
		appTracker.TrackEvent("safe_balances", "safe", "balances")

		store := state.NewStore()
		store.SetChainID(network.GetChainID())
		store.SetTokens(list)
		store.SetBalances(balances)

		items := state.NewSafeTokensSelector().Select(store)
		if !BalancesAll {
			items = tokens.FilterZeroBalances(items)
		}
		items = tokens.SortByFiat(items)

		if SafeJSON {
			if err := appUI.JSON(items); err != nil {
				appUI.Error("%s", err)
			}
			return
		}

		rows := [][]string{}
		for _, t := range items {
			fiat := t.Balance.FiatBalance
			if fiat == "" {
				fiat = "-"
			}
			rows = append(rows, []string{t.Symbol, opscommon.ShortAddress(t.Address), t.HumanBalance(), fiat})
		}
		appUI.Section(fmt.Sprintf("Balances of %s on %s", addr.Hex(), network.GetName()))
		if len(rows) == 0 {
			appUI.Info("No balances.")
			return
		}
		appUI.Table([]string{"Token", "Address", "Balance", "Fiat"}, rows)
		appUI.Info("Total fiat: %s", state.NewSafeFiatTotalSelector().Select(store))
	},
}

var safeCreateTxCmd = &cobra.Command{
	Use:   "create-tx",
	Short: "Build the transaction that deploys a new Safe",
	Long: `Builds the proxy factory call creating a Safe of the latest version owned by
--owner (repeat or comma separate) with the given --threshold. The
transaction is printed, not sent.`,
	Run: func(cmd *cobra.Command, args []string) {
		network := networks.CurrentNetwork()

		owners := []common.Address{}
		for _, o := range Owners {
			o = strings.TrimSpace(o)
			if !opscommon.IsAddress(o) {
				appUI.Error("%q is not a valid owner address", o)
				return
			}
			owners = append(owners, common.HexToAddress(o))
		}
		salt, err := opscommon.StringToBigInt(SaltNonce)
		if err != nil {
			appUI.Error("Invalid salt: %s", err)
			return
		}

		r, err := newReader(network)
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		tx, err := safe.NewSafeDeploymentTx(network, r, resolver, owners, Threshold, salt)
		if err != nil {
			appUI.Error("Couldn't build the deployment: %s", err)
			return
		}

		rows := [][2]string{
			{"Network", fmt.Sprintf("%s (%d)", network.GetName(), network.GetChainID())},
			{"To (proxy factory)", tx.To.Hex()},
			{"Singleton", tx.Singleton.Hex()},
			{"Salt nonce", tx.SaltNonce.String()},
			{"Data", hexutil.Encode(tx.Data)},
		}
		if PredictAddress {
			factory, err := safe.NewProxyFactoryContract(network, r, resolver)
			if err == nil {
				var predicted common.Address
				predicted, err = factory.PredictSafeAddress(tx.Singleton, tx.Initializer, tx.SaltNonce)
				if err == nil {
					rows = append(rows, [2]string{"Safe address", predicted.Hex()})
				}
			}
			if err != nil {
				appUI.Warn("Couldn't predict the Safe address: %s", err)
			}
		}
		appUI.KeyValue(rows)
		appTracker.TrackEvent("safe_create_tx", "safe", "create", fmt.Sprintf("%d/%d", Threshold, len(owners)))
	},
}

var safeCmd = &cobra.Command{
	Use:   "safe",
	Short: "Read Safes and prepare their transactions",
	Long:  ``,
}

func init() {
	safeCmd.PersistentFlags().BoolVar(&SafeJSON, "json", false, "Print json instead of tables")

	safeBalancesCmd.Flags().StringVarP(&TokenListFile, "tokens", "t", "", "Token list json file")
	safeBalancesCmd.Flags().BoolVar(&BalancesCached, "cached", false, "Show the balances cached by the last run")
	safeBalancesCmd.Flags().BoolVarP(&BalancesAll, "all", "a", false, "Also show tokens with a zero balance")

	safeCreateTxCmd.Flags().StringSliceVarP(&Owners, "owner", "o", nil, "Owner address, repeat for more owners")
	safeCreateTxCmd.Flags().Uint64VarP(&Threshold, "threshold", "n", 1, "Number of owners required to confirm a transaction")
	safeCreateTxCmd.Flags().StringVarP(&SaltNonce, "salt", "s", "0", "Salt nonce of the CREATE2 deployment")
	safeCreateTxCmd.Flags().BoolVar(&PredictAddress, "predict", false, "Read the proxy creation code and predict the new Safe address")

	safeCmd.AddCommand(safeInfoCmd)
	safeCmd.AddCommand(safeBalancesCmd)
	safeCmd.AddCommand(safeCreateTxCmd)
	rootCmd.AddCommand(safeCmd)
}
