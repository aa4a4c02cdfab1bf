package safe

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

func validateOwners(owners []common.Address, threshold uint64) error {
	if len(owners) == 0 {
		return ErrEmptyOwners
	}
	if threshold == 0 || threshold > uint64(len(owners)) {
		return fmt.Errorf("threshold %d with %d owners: %w", threshold, len(owners), ErrInvalidThreshold)
	}
	seen := map[common.Address]bool{}
	for _, o := range owners {
		if o == (common.Address{}) {
			return fmt.Errorf("zero address can't be an owner")
		}
		if seen[o] {
			return fmt.Errorf("duplicated owner %s", o.Hex())
		}
		seen[o] = true
	}
	return nil
}

// SetupData encodes the setup() initializer of singleton. Singletons before
// 1.1.0 have no fallback handler parameter, fallbackHandler is ignored for
// them.
func SetupData(singleton *deployments.Deployment, owners []common.Address, threshold uint64, fallbackHandler common.Address) ([]byte, error) {
	if err := validateOwners(owners, threshold); err != nil {
		return nil, err
	}
	a, err := singleton.ParsedABI()
	if err != nil {
		return nil, err
	}
	setup, found := a.Methods["setup"]
	if !found {
		return nil, fmt.Errorf("%s has no setup method", singleton)
	}

	zero := common.Address{}
	t := new(big.Int).SetUint64(threshold)
	switch len(setup.Inputs) {
	case 8:
		return a.Pack("setup", owners, t, zero, []byte{}, fallbackHandler, zero, big.NewInt(0), zero)
	case 7:
		return a.Pack("setup", owners, t, zero, []byte{}, zero, big.NewInt(0), zero)
	default:
		return nil, fmt.Errorf("%s has an unsupported setup signature", singleton)
	}
}

type ProxyFactoryContract struct {
	Address    common.Address
	Deployment *deployments.Deployment
	Abi        *abi.ABI
	reader     ContractReader
}

func NewProxyFactoryContract(network networks.Network, reader ContractReader, resolver *contracts.Resolver) (*ProxyFactoryContract, error) {
	d, err := resolver.Latest(deployments.ProxyFactory, network)
	if err != nil {
		// keep going with whatever abi we have, the address falls back too
		var found bool
		d, found = resolver.Registry().Find(deployments.ProxyFactory, deployments.Filter{})
		if !found {
			return nil, err
		}
	}
	a, err := d.ParsedABI()
	if err != nil {
		return nil, err
	}
	return &ProxyFactoryContract{
		Address:    resolver.ProxyFactoryAddress(network),
		Deployment: d,
		Abi:        a,
		reader:     reader,
	}, nil
}

func (pf *ProxyFactoryContract) EncodeCreateProxyWithNonce(singleton common.Address, initializer []byte, saltNonce *big.Int) ([]byte, error) {
	return pf.Abi.Pack("createProxyWithNonce", singleton, initializer, orZero(saltNonce))
}

func (pf *ProxyFactoryContract) ProxyCreationCode() ([]byte, error) {
	code := []byte{}
	err := pf.reader.ReadContractWithABI(&code, pf.Address.Hex(), pf.Abi, "proxyCreationCode")
	return code, err
}

// PredictAddress computes the CREATE2 address createProxyWithNonce will
// deploy to, given the factory's proxy creation code.
func PredictAddress(factory common.Address, creationCode []byte, singleton common.Address, initializer []byte, saltNonce *big.Int) common.Address {
	salt := crypto.Keccak256(
		crypto.Keccak256(initializer),
		common.LeftPadBytes(orZero(saltNonce).Bytes(), 32),
	)
	initCode := append(append([]byte{}, creationCode...), common.LeftPadBytes(singleton.Bytes(), 32)...)
	return crypto.CreateAddress2(factory, [32]byte(salt), crypto.Keccak256(initCode))
}

func (pf *ProxyFactoryContract) PredictSafeAddress(singleton common.Address, initializer []byte, saltNonce *big.Int) (common.Address, error) {
	code, err := pf.ProxyCreationCode()
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't read proxy creation code: %w", err)
	}
	return PredictAddress(pf.Address, code, singleton, initializer, saltNonce), nil
}

// DeploymentTx is the transaction that creates a new Safe through the proxy
// factory.
type DeploymentTx struct {
	To          common.Address
	Data        []byte
	Singleton   common.Address
	Initializer []byte
	SaltNonce   *big.Int
}

// NewSafeDeploymentTx builds the creation transaction of a latest version
// Safe owned by owners.
func NewSafeDeploymentTx(
	network networks.Network,
	reader ContractReader,
	resolver *contracts.Resolver,
	owners []common.Address,
	threshold uint64,
	saltNonce *big.Int,
) (*DeploymentTx, error) {
	singleton, err := resolver.SafeSingleton(deployments.LatestVersion, network)
	if err != nil {
		return nil, err
	}
	initializer, err := SetupData(singleton, owners, threshold, resolver.FallbackHandlerAddress(network))
	if err != nil {
		return nil, err
	}
	factory, err := NewProxyFactoryContract(network, reader, resolver)
	if err != nil {
		return nil, err
	}
	singletonAddr := singleton.Address(network.GetChainID())
	data, err := factory.EncodeCreateProxyWithNonce(singletonAddr, initializer, saltNonce)
	if err != nil {
		return nil, err
	}
	return &DeploymentTx{
		To:          factory.Address,
		Data:        data,
		Singleton:   singletonAddr,
		Initializer: initializer,
		SaltNonce:   orZero(saltNonce),
	}, nil
}
