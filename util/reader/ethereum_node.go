package reader

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type EthereumNode interface {
	NodeName() string
	NodeURL() string
	GetCode(address string) (code []byte, err error)
	GetBalance(address string) (balance *big.Int, err error)
	ReadContractToBytes(
		atBlock int64,
		from string,
		caddr string,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	StorageAt(atBlock int64, caddr string, slot string) ([]byte, error)
	CurrentBlock() (uint64, error)
}
