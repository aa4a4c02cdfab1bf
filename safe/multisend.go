package safe

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

// MetaTransaction is one call batched into a multiSend.
type MetaTransaction struct {
	Operation Operation
	To        common.Address
	Value     *big.Int
	Data      []byte
}

// EncodeMultiSendTransactions packs txs the way MultiSend expects:
// operation (1 byte), to (20 bytes), value (32 bytes), data length
// (32 bytes) and data, back to back.
func EncodeMultiSendTransactions(txs []MetaTransaction) []byte {
	res := []byte{}
	for _, tx := range txs {
		res = append(res, byte(tx.Operation))
		res = append(res, tx.To.Bytes()...)
		res = append(res, common.LeftPadBytes(orZero(tx.Value).Bytes(), 32)...)
		res = append(res, common.LeftPadBytes(big.NewInt(int64(len(tx.Data))).Bytes(), 32)...)
		res = append(res, tx.Data...)
	}
	return res
}

type MultiSendContract struct {
	Address  common.Address
	Abi      *abi.ABI
	CallOnly bool
}

// NewMultiSendContract binds MultiSend, or MultiSendCallOnly when callOnly
// is set, for network.
func NewMultiSendContract(network networks.Network, resolver *contracts.Resolver, callOnly bool) (*MultiSendContract, error) {
	contract := deployments.MultiSend
	address := resolver.MultiSendAddress(network)
	if callOnly {
		contract = deployments.MultiSendCallOnly
		address = resolver.MultiSendCallOnlyAddress(network)
	}
	d, found := resolver.Registry().Find(contract, deployments.Filter{})
	if !found {
		return nil, fmt.Errorf("%s: %w", contract, contracts.ErrDeploymentNotFound)
	}
	a, err := d.ParsedABI()
	if err != nil {
		return nil, err
	}
	return &MultiSendContract{Address: address, Abi: a, CallOnly: callOnly}, nil
}

// EncodeMultiSend returns the multiSend calldata batching txs. The Safe must
// delegatecall into the MultiSend address with it.
func (ms *MultiSendContract) EncodeMultiSend(txs []MetaTransaction) ([]byte, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("nothing to batch")
	}
	if ms.CallOnly {
		for i, tx := range txs {
			if tx.Operation != Call {
				return nil, fmt.Errorf("transaction %d: MultiSendCallOnly does not support delegate calls", i)
			}
		}
	}
	return ms.Abi.Pack("multiSend", EncodeMultiSendTransactions(txs))
}

// SafeTransaction wraps the batch into a Safe transaction ready to be hashed
// and signed.
func (ms *MultiSendContract) SafeTransaction(txs []MetaTransaction) (SafeTransaction, error) {
	data, err := ms.EncodeMultiSend(txs)
	if err != nil {
		return SafeTransaction{}, err
	}
	return SafeTransaction{
		To:        ms.Address,
		Value:     big.NewInt(0),
		Data:      data,
		Operation: DelegateCall,
	}, nil
}
