package reader

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/tranvictor/safeops/networks"
)

var DEFAULT_ADDRESS string = "0x0000000000000000000000000000000000000000"

var ErrNoNodes = errors.New("no nodes configured")

// EthReader fans every call out to all of its nodes and returns the first
// successful answer.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url)
	}
	return NewEthReaderWithNodes(ns)
}

func NewEthReaderWithNodes(nodes map[string]EthereumNode) *EthReader {
	return &EthReader{nodes: nodes}
}

// GetNodes returns the default nodes of network, plus the node from the
// network's env variable when it is set.
func GetNodes(network networks.Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range network.GetDefaultNodes() {
		nodes[name] = url
	}
	if custom := strings.TrimSpace(os.Getenv(network.GetNodeVariableName())); network.GetNodeVariableName() != "" && custom != "" {
		nodes["custom-node"] = custom
	}
	return nodes
}

func NewEthReader(network networks.Network) (*EthReader, error) {
	nodes := GetNodes(network)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", network.GetName(), ErrNoNodes)
	}
	return NewEthReaderGeneric(nodes), nil
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

func firstSuccess[T any](er *EthReader, call func(n EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, ErrNoNodes
	}
	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := call(n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) GetCode(address string) ([]byte, error) {
	return firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.GetCode(address)
	})
}

func (er *EthReader) GetBalance(address string) (*big.Int, error) {
	return firstSuccess(er, func(n EthereumNode) (*big.Int, error) {
		return n.GetBalance(address)
	})
}

func (er *EthReader) StorageAt(atBlock int64, caddr string, slot string) ([]byte, error) {
	return firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.StorageAt(atBlock, caddr, slot)
	})
}

func (er *EthReader) CurrentBlock() (uint64, error) {
	return firstSuccess(er, func(n EthereumNode) (uint64, error) {
		return n.CurrentBlock()
	})
}

func (er *EthReader) ReadContractToBytes(
	atBlock int64,
	from string,
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	return firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.ReadContractToBytes(atBlock, from, caddr, abi, method, args...)
	})
}

func (er *EthReader) ReadHistoryContractWithABI(
	atBlock int64,
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(atBlock, DEFAULT_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

func (er *EthReader) ReadContractWithABI(
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	return er.ReadHistoryContractWithABI(-1, result, caddr, abi, method, args...)
}
