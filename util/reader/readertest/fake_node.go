// Package readertest provides an in-memory EthereumNode for tests.
package readertest

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type CallHandler func(args ...interface{}) ([]interface{}, error)

// FakeNode answers contract calls from registered handlers and ABI-packs the
// returned values with the caller's ABI, so wrappers are exercised end to end.
type FakeNode struct {
	Name string
	// Err, when set, is returned by every call.
	Err   error
	Block uint64

	mu       sync.Mutex
	balances map[common.Address]*big.Int
	codes    map[common.Address][]byte
	storage  map[common.Address]map[common.Hash][]byte
	handlers map[string]CallHandler
	calls    []string
}

func NewFakeNode(name string) *FakeNode {
	return &FakeNode{
		Name:     name,
		balances: map[common.Address]*big.Int{},
		codes:    map[common.Address][]byte{},
		storage:  map[common.Address]map[common.Hash][]byte{},
		handlers: map[string]CallHandler{},
	}
}

func callKey(caddr, method string) string {
	return strings.ToLower(common.HexToAddress(caddr).Hex()) + "." + method
}

func (f *FakeNode) SetBalance(addr string, balance *big.Int) *FakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[common.HexToAddress(addr)] = balance
	return f
}

func (f *FakeNode) SetCode(addr string, code []byte) *FakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[common.HexToAddress(addr)] = code
	return f
}

func (f *FakeNode) SetStorage(addr string, slot common.Hash, value []byte) *FakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := common.HexToAddress(addr)
	if f.storage[a] == nil {
		f.storage[a] = map[common.Hash][]byte{}
	}
	f.storage[a][slot] = value
	return f
}

// On registers handler for method calls to caddr.
func (f *FakeNode) On(caddr, method string, handler CallHandler) *FakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[callKey(caddr, method)] = handler
	return f
}

// Return makes every call of method on caddr return values.
func (f *FakeNode) Return(caddr, method string, values ...interface{}) *FakeNode {
	return f.On(caddr, method, func(args ...interface{}) ([]interface{}, error) {
		return values, nil
	})
}

// Calls lists "address.method" for every contract call served so far.
func (f *FakeNode) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *FakeNode) NodeName() string {
	return f.Name
}

func (f *FakeNode) NodeURL() string {
	return "fake://" + f.Name
}

func (f *FakeNode) GetCode(address string) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[common.HexToAddress(address)], nil
}

func (f *FakeNode) GetBalance(address string) (*big.Int, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, found := f.balances[common.HexToAddress(address)]; found {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *FakeNode) StorageAt(atBlock int64, caddr string, slot string) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, found := f.storage[common.HexToAddress(caddr)][common.HexToHash(slot)]; found {
		return v, nil
	}
	return make([]byte, 32), nil
}

func (f *FakeNode) CurrentBlock() (uint64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Block, nil
}

func (f *FakeNode) ReadContractToBytes(atBlock int64, from string, caddr string, a *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	m, found := a.Methods[method]
	if !found {
		return nil, fmt.Errorf("method %s not in abi", method)
	}
	// make sure the wrapper passed arguments the abi accepts
	if _, err := a.Pack(method, args...); err != nil {
		return nil, err
	}

	f.mu.Lock()
	handler, found := f.handlers[callKey(caddr, method)]
	f.calls = append(f.calls, callKey(caddr, method))
	f.mu.Unlock()
	if !found {
		return nil, fmt.Errorf("execution reverted: no handler for %s", callKey(caddr, method))
	}

	values, err := handler(args...)
	if err != nil {
		return nil, err
	}
	return m.Outputs.Pack(values...)
}
