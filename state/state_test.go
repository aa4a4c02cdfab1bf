package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/safeops/safe"
	"github.com/tranvictor/safeops/tokens"
)

const dai = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

func TestSelectorRecomputesOnlyOnInputChange(t *testing.T) {
	store := NewStore()
	calls := 0
	sel := NewSelector(func(st State) int {
		calls++
		return len(st.Balances)
	}, BalancesSlice)

	assert.Equal(t, 0, sel.Select(store))
	assert.Equal(t, 0, sel.Select(store))
	assert.Equal(t, 1, calls)

	// unrelated slice
	store.SetChainID(100)
	sel.Select(store)
	assert.Equal(t, 1, calls)

	store.SetBalances([]tokens.Balance{{TokenAddress: dai, TokenBalance: "1"}})
	assert.Equal(t, 1, sel.Select(store))
	assert.Equal(t, 2, calls)

	// setting the same value again is still a new revision
	store.SetBalances([]tokens.Balance{{TokenAddress: dai, TokenBalance: "1"}})
	sel.Select(store)
	assert.Equal(t, 3, calls)
}

func TestSafeTokensSelector(t *testing.T) {
	store := NewStore()
	sel := NewSafeTokensSelector()
	assert.Empty(t, sel.Select(store))

	store.SetTokens(tokens.NewTokenList(tokens.Token{Address: dai, Symbol: "DAI", Decimals: 18}))
	store.SetBalances([]tokens.Balance{
		{TokenAddress: "0x6b175474e89094c44da98b954eedeac495271d0f", TokenBalance: "5"},
		{TokenAddress: "0x0000000000000000000000000000000000000bad", TokenBalance: "1"},
	})

	got := sel.Select(store)
	require.Len(t, got, 1)
	assert.Equal(t, "DAI", got[0].Symbol)
	assert.Equal(t, "5", got[0].Balance.TokenBalance)
}

func TestSafeSelectors(t *testing.T) {
	store := NewStore()
	owners := NewSafeOwnersSelector()
	native := NewSafeNativeBalanceSelector()
	fiat := NewSafeFiatTotalSelector()

	assert.Equal(t, []string{}, owners.Select(store))
	assert.Equal(t, "0", native.Select(store))
	assert.Equal(t, "0.00", fiat.Select(store))

	store.SetSafe(&safe.Safe{
		Owners:        []string{"0x01", "0x02"},
		NativeBalance: "1500000000000000000",
	})
	store.SetBalances([]tokens.Balance{
		{TokenAddress: dai, FiatBalance: "10.5"},
		{TokenAddress: tokens.NativeTokenAddress, FiatBalance: "2000"},
	})

	assert.Equal(t, []string{"0x01", "0x02"}, owners.Select(store))
	assert.Equal(t, "1.5", native.Select(store))
	assert.Equal(t, "2010.50", fiat.Select(store))

	store.SetTokens(tokens.NewTokenList(tokens.Token{Address: tokens.NativeTokenAddress, Decimals: 6}))
	assert.Equal(t, "1500000000000", native.Select(store))
}

func TestStoreCopiesBalances(t *testing.T) {
	store := NewStore()
	balances := []tokens.Balance{{TokenAddress: dai, TokenBalance: "1"}}
	store.SetBalances(balances)
	balances[0].TokenBalance = "2"
	assert.Equal(t, "1", store.Snapshot().Balances[0].TokenBalance)
}

func TestSelectorConcurrentUse(t *testing.T) {
	store := NewStore()
	sel := NewSafeFiatTotalSelector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetBalances([]tokens.Balance{{FiatBalance: "1"}})
			sel.Select(store)
		}()
	}
	wg.Wait()
	assert.Equal(t, "1.00", sel.Select(store))
}
