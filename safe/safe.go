package safe

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

// ContractReader is the subset of reader.EthReader the wrappers need.
type ContractReader interface {
	ReadContractWithABI(result interface{}, caddr string, abi *abi.ABI, method string, args ...interface{}) error
	StorageAt(atBlock int64, caddr string, slot string) ([]byte, error)
	GetBalance(address string) (*big.Int, error)
	ERC20Balance(caddr string, user string) (*big.Int, error)
}

type Operation uint8

const (
	Call         Operation = 0
	DelegateCall Operation = 1
)

var (
	ErrEmptyOwners      = errors.New("a safe needs at least one owner")
	ErrInvalidThreshold = errors.New("threshold must be between 1 and the number of owners")
)

// SafeTransaction is the payload every owner signs.
type SafeTransaction struct {
	To             common.Address
	Value          *big.Int
	Data           []byte
	Operation      Operation
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
}

func orZero(b *big.Int) *big.Int {
	if b == nil {
		return big.NewInt(0)
	}
	return b
}

func (tx SafeTransaction) args() []interface{} {
	data := tx.Data
	if data == nil {
		data = []byte{}
	}
	return []interface{}{
		tx.To,
		orZero(tx.Value),
		data,
		uint8(tx.Operation),
		orZero(tx.SafeTxGas),
		orZero(tx.BaseGas),
		orZero(tx.GasPrice),
		tx.GasToken,
		tx.RefundReceiver,
	}
}

type SafeContract struct {
	Address    string
	Version    string
	Network    networks.Network
	Deployment *deployments.Deployment
	reader     ContractReader
	Abi        *abi.ABI
}

// NewSafeContract binds the Safe at address using the singleton ABI matching
// version on network.
func NewSafeContract(address, version string, network networks.Network, reader ContractReader, resolver *contracts.Resolver) (*SafeContract, error) {
	d, err := resolver.SafeSingleton(version, network)
	if err != nil {
		return nil, err
	}
	a, err := d.ParsedABI()
	if err != nil {
		return nil, err
	}
	return &SafeContract{
		Address:    address,
		Version:    version,
		Network:    network,
		Deployment: d,
		reader:     reader,
		Abi:        a,
	}, nil
}

// LoadSafeContract reads VERSION() from the Safe first and binds the matching
// ABI.
func LoadSafeContract(address string, network networks.Network, reader ContractReader, resolver *contracts.Resolver) (*SafeContract, error) {
	version, err := ReadVersion(address, reader, resolver.Registry())
	if err != nil {
		return nil, fmt.Errorf("couldn't read version of %s: %w", address, err)
	}
	return NewSafeContract(address, version, network, reader, resolver)
}

// ReadVersion calls VERSION() which every singleton version exposes.
func ReadVersion(address string, reader ContractReader, registry *deployments.Registry) (string, error) {
	d, found := registry.Find(deployments.GnosisSafe, deployments.Filter{})
	if !found {
		return "", fmt.Errorf("%s: %w", deployments.GnosisSafe, contracts.ErrDeploymentNotFound)
	}
	a, err := d.ParsedABI()
	if err != nil {
		return "", err
	}
	var version string
	if err := reader.ReadContractWithABI(&version, address, a, "VERSION"); err != nil {
		return "", err
	}
	return version, nil
}

func (sc *SafeContract) Owners() ([]string, error) {
	owners := []common.Address{}
	err := sc.reader.ReadContractWithABI(
		&owners,
		sc.Address,
		sc.Abi,
		"getOwners",
	)
	result := []string{}
	if err != nil {
		return result, err
	}
	for _, owner := range owners {
		result = append(result, owner.Hex())
	}
	return result, nil
}

func (sc *SafeContract) Threshold() (uint64, error) {
	r := big.NewInt(0)
	err := sc.reader.ReadContractWithABI(
		&r,
		sc.Address,
		sc.Abi,
		"getThreshold",
	)
	if err != nil {
		return 0, err
	}
	return r.Uint64(), nil
}

func (sc *SafeContract) Nonce() (*big.Int, error) {
	r := big.NewInt(0)
	err := sc.reader.ReadContractWithABI(
		&r,
		sc.Address,
		sc.Abi,
		"nonce",
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (sc *SafeContract) IsOwner(owner string) (bool, error) {
	var r bool
	err := sc.reader.ReadContractWithABI(
		&r,
		sc.Address,
		sc.Abi,
		"isOwner",
		common.HexToAddress(owner),
	)
	return r, err
}

// TransactionHash asks the Safe for the EIP-712 hash owners sign for tx at
// nonce.
func (sc *SafeContract) TransactionHash(tx SafeTransaction, nonce *big.Int) (common.Hash, error) {
	var r [32]byte
	args := append(tx.args(), orZero(nonce))
	err := sc.reader.ReadContractWithABI(
		&r,
		sc.Address,
		sc.Abi,
		"getTransactionHash",
		args...,
	)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(r), nil
}

func (sc *SafeContract) EncodeExecTransaction(tx SafeTransaction, signatures []byte) ([]byte, error) {
	if signatures == nil {
		signatures = []byte{}
	}
	args := append(tx.args(), signatures)
	return sc.Abi.Pack("execTransaction", args...)
}

func (sc *SafeContract) EncodeApproveHash(hash common.Hash) ([]byte, error) {
	return sc.Abi.Pack("approveHash", [32]byte(hash))
}

// MasterCopyOf reads the singleton a Safe proxy delegates to. Proxies keep it
// in storage slot 0.
func MasterCopyOf(proxy string, reader ContractReader) (common.Address, error) {
	slot, err := reader.StorageAt(-1, proxy, "0x0")
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(slot), nil
}
