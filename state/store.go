// Package state keeps the client's current view of a Safe and derives
// read-only data from it through memoized selectors.
package state

import (
	"sync"

	"github.com/tranvictor/safeops/safe"
	"github.com/tranvictor/safeops/tokens"
)

// Slice identifies one independently updated part of State.
type Slice int

const (
	ChainSlice Slice = iota
	SafeSlice
	TokensSlice
	BalancesSlice
	numSlices
)

func (s Slice) String() string {
	switch s {
	case ChainSlice:
		return "chain"
	case SafeSlice:
		return "safe"
	case TokensSlice:
		return "tokens"
	case BalancesSlice:
		return "balances"
	}
	return "unknown"
}

// State is an immutable snapshot handed to selectors. Selectors must not
// modify what it points to.
type State struct {
	ChainID  uint64
	Safe     *safe.Safe
	Tokens   *tokens.TokenList
	Balances []tokens.Balance

	revisions [numSlices]uint64
}

// Revision is bumped every time the slice is set.
func (s State) Revision(slice Slice) uint64 {
	return s.revisions[slice]
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{
		Tokens:   tokens.NewTokenList(),
		Balances: []tokens.Balance{},
	}}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) SetChainID(chainID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChainID = chainID
	s.state.revisions[ChainSlice]++
}

func (s *Store) SetSafe(sf *safe.Safe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Safe = sf
	s.state.revisions[SafeSlice]++
}

func (s *Store) SetTokens(list *tokens.TokenList) {
	if list == nil {
		list = tokens.NewTokenList()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tokens = list
	s.state.revisions[TokensSlice]++
}

// SetBalances stores a copy of balances.
func (s *Store) SetBalances(balances []tokens.Balance) {
	cp := append([]tokens.Balance{}, balances...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Balances = cp
	s.state.revisions[BalancesSlice]++
}
