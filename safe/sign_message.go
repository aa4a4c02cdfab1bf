package safe

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

type SignMessageLibContract struct {
	Address common.Address
	Abi     *abi.ABI
}

func NewSignMessageLibContract(network networks.Network, resolver *contracts.Resolver) (*SignMessageLibContract, error) {
	d, found := resolver.Registry().Find(deployments.SignMessageLib, deployments.Filter{})
	if !found {
		return nil, fmt.Errorf("%s: %w", deployments.SignMessageLib, contracts.ErrDeploymentNotFound)
	}
	a, err := d.ParsedABI()
	if err != nil {
		return nil, err
	}
	return &SignMessageLibContract{
		Address: resolver.SignMessageLibAddress(network),
		Abi:     a,
	}, nil
}

func (sm *SignMessageLibContract) EncodeSignMessage(message []byte) ([]byte, error) {
	return sm.Abi.Pack("signMessage", message)
}

// SafeTransaction builds the delegate call that marks message as signed by
// the Safe (EIP-1271 on-chain signature).
func (sm *SignMessageLibContract) SafeTransaction(message []byte) (SafeTransaction, error) {
	data, err := sm.EncodeSignMessage(message)
	if err != nil {
		return SafeTransaction{}, err
	}
	return SafeTransaction{
		To:        sm.Address,
		Data:      data,
		Operation: DelegateCall,
	}, nil
}
