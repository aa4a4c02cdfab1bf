package reader

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const ERC20_ABI string = `[{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}]`

var erc20ABI = mustParseABI(ERC20_ABI)

func mustParseABI(s string) *abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return &a
}

func ERC20ABI() *abi.ABI {
	return erc20ABI
}

func (er *EthReader) ERC20Balance(caddr string, user string) (*big.Int, error) {
	result := big.NewInt(0)
	err := er.ReadContractWithABI(&result, caddr, erc20ABI, "balanceOf", common.HexToAddress(user))
	return result, err
}

func (er *EthReader) ERC20Decimal(caddr string) (uint64, error) {
	var result uint8
	err := er.ReadContractWithABI(&result, caddr, erc20ABI, "decimals")
	return uint64(result), err
}

func (er *EthReader) ERC20Symbol(caddr string) (string, error) {
	var result string
	err := er.ReadContractWithABI(&result, caddr, erc20ABI, "symbol")
	return result, err
}

func (er *EthReader) ERC20Name(caddr string) (string, error) {
	var result string
	err := er.ReadContractWithABI(&result, caddr, erc20ABI, "name")
	return result, err
}
