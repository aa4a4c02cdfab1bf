package state

import (
	"sync"

	"github.com/tranvictor/safeops/tokens"
)

// Selector memoizes compute over the slices it depends on. The cached value
// is returned until one of those slices gets a new revision.
type Selector[T any] struct {
	inputs  []Slice
	compute func(State) T

	mu       sync.Mutex
	computed bool
	seen     []uint64
	value    T
}

func NewSelector[T any](compute func(State) T, inputs ...Slice) *Selector[T] {
	return &Selector[T]{
		inputs:  inputs,
		compute: compute,
	}
}

func (sel *Selector[T]) revisions(st State) []uint64 {
	res := make([]uint64, len(sel.inputs))
	for i, in := range sel.inputs {
		res[i] = st.Revision(in)
	}
	return res
}

// Select returns the derived value for the store's current state.
func (sel *Selector[T]) Select(store *Store) T {
	st := store.Snapshot()
	revs := sel.revisions(st)

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.computed && equalRevisions(sel.seen, revs) {
		return sel.value
	}
	sel.value = sel.compute(st)
	sel.seen = revs
	sel.computed = true
	return sel.value
}

func equalRevisions(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func NewSafeTokensSelector() *Selector[[]tokens.TokenWithBalance] {
	return NewSelector(func(st State) []tokens.TokenWithBalance {
		return tokens.ExtendedSafeTokens(st.Tokens, st.Balances)
	}, TokensSlice, BalancesSlice)
}

func NewSafeOwnersSelector() *Selector[[]string] {
	return NewSelector(func(st State) []string {
		if st.Safe == nil {
			return []string{}
		}
		return append([]string{}, st.Safe.Owners...)
	}, SafeSlice)
}

// NewSafeNativeBalanceSelector derives the Safe's native currency balance in
// whole units, "0" when no Safe is loaded. Decimals come from the native
// entry of the token list, 18 when there is none.
func NewSafeNativeBalanceSelector() *Selector[string] {
	return NewSelector(func(st State) string {
		if st.Safe == nil || st.Safe.NativeBalance == "" {
			return "0"
		}
		native, found := st.Tokens.Get(tokens.NativeTokenAddress)
		if !found {
			native = tokens.Token{Address: tokens.NativeTokenAddress, Decimals: 18}
		}
		return tokens.TokenWithBalance{
			Token:   native,
			Balance: tokens.Balance{TokenAddress: native.Address, TokenBalance: st.Safe.NativeBalance},
		}.HumanBalance()
	}, SafeSlice, TokensSlice)
}

func NewSafeFiatTotalSelector() *Selector[string] {
	return NewSelector(func(st State) string {
		return tokens.TotalFiatBalance(st.Balances)
	}, BalancesSlice)
}
