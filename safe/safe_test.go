package safe

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/tokens"
	"github.com/tranvictor/safeops/util/reader"
	"github.com/tranvictor/safeops/util/reader/readertest"
)

const (
	safeAddr = "0x1111111111111111111111111111111111111111"
	ownerA   = "0xAAAaAAAaaAaAaaaAaAaAAAAAAaaaaAAaaaaAaAaa"
	ownerB   = "0xBbbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"
	dai      = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

var masterCopy = common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")

func fakeSafe(version string) *readertest.FakeNode {
	return readertest.NewFakeNode("fake").
		Return(safeAddr, "VERSION", version).
		Return(safeAddr, "getOwners", []common.Address{common.HexToAddress(ownerA), common.HexToAddress(ownerB)}).
		Return(safeAddr, "getThreshold", big.NewInt(2)).
		Return(safeAddr, "nonce", big.NewInt(7)).
		On(safeAddr, "isOwner", func(args ...interface{}) ([]interface{}, error) {
			return []interface{}{args[0].(common.Address) == common.HexToAddress(ownerA)}, nil
		}).
		SetBalance(safeAddr, big.NewInt(1000)).
		SetStorage(safeAddr, common.Hash{}, common.LeftPadBytes(masterCopy.Bytes(), 32))
}

func readerFor(node reader.EthereumNode) *reader.EthReader {
	return reader.NewEthReaderWithNodes(map[string]reader.EthereumNode{node.NodeName(): node})
}

func TestFetchSafe(t *testing.T) {
	r := readerFor(fakeSafe("1.3.0"))

	s, err := FetchSafe(safeAddr, networks.EthereumMainnet, r, contracts.DefaultResolver())
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", s.Version)
	assert.Equal(t, uint64(1), s.ChainID)
	assert.Equal(t, []string{common.HexToAddress(ownerA).Hex(), common.HexToAddress(ownerB).Hex()}, s.Owners)
	assert.Equal(t, uint64(2), s.Threshold)
	assert.Equal(t, "7", s.Nonce)
	assert.Equal(t, "1000", s.NativeBalance)
	assert.Equal(t, masterCopy.Hex(), s.MasterCopy)
}

func TestFetchSafePropagatesReadErrors(t *testing.T) {
	node := readertest.NewFakeNode("down")
	node.Err = errors.New("dial tcp: connection refused")

	_, err := FetchSafe(safeAddr, networks.EthereumMainnet, readerFor(node), contracts.DefaultResolver())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoadSafeContractPicksVersionedABI(t *testing.T) {
	resolver := contracts.DefaultResolver()

	sc, err := LoadSafeContract(safeAddr, networks.Polygon, readerFor(fakeSafe("1.3.0")), resolver)
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafeL2, sc.Deployment.Contract)

	sc, err = LoadSafeContract(safeAddr, networks.EthereumMainnet, readerFor(fakeSafe("0.0.1")), resolver)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", sc.Deployment.Version)

	_, err = LoadSafeContract(safeAddr, networks.EthereumMainnet, readerFor(fakeSafe("9.9.9")), resolver)
	assert.ErrorIs(t, err, contracts.ErrDeploymentNotFound)
}

func TestIsOwnerAndTransactionHash(t *testing.T) {
	want := common.HexToHash("0x1234")
	node := fakeSafe("1.3.0").On(safeAddr, "getTransactionHash", func(args ...interface{}) ([]interface{}, error) {
		if len(args) != 10 {
			return nil, errors.New("wrong number of args")
		}
		if args[9].(*big.Int).Int64() != 7 {
			return nil, errors.New("wrong nonce")
		}
		return []interface{}{[32]byte(want)}, nil
	})
	sc, err := NewSafeContract(safeAddr, "1.3.0", networks.EthereumMainnet, readerFor(node), contracts.DefaultResolver())
	require.NoError(t, err)

	isOwner, err := sc.IsOwner(ownerA)
	require.NoError(t, err)
	assert.True(t, isOwner)
	isOwner, err = sc.IsOwner(ownerB)
	require.NoError(t, err)
	assert.False(t, isOwner)

	hash, err := sc.TransactionHash(SafeTransaction{To: common.HexToAddress(dai)}, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, want, hash)
}

func TestEncodeExecTransaction(t *testing.T) {
	sc, err := NewSafeContract(safeAddr, "1.1.1", networks.EthereumMainnet, readerFor(fakeSafe("1.1.1")), contracts.DefaultResolver())
	require.NoError(t, err)

	data, err := sc.EncodeExecTransaction(SafeTransaction{
		To:    common.HexToAddress(dai),
		Value: big.NewInt(5),
		Data:  []byte{0xab},
	}, []byte{1, 2, 3})
	require.NoError(t, err)

	method := sc.Abi.Methods["execTransaction"]
	assert.Equal(t, method.ID, data[:4])
	values, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(dai), values[0])
	assert.Equal(t, int64(5), values[1].(*big.Int).Int64())
	assert.Equal(t, []byte{1, 2, 3}, values[9])

	data, err = sc.EncodeApproveHash(common.HexToHash("0x01"))
	require.NoError(t, err)
	assert.Equal(t, sc.Abi.Methods["approveHash"].ID, data[:4])
}

func TestFetchTokenBalancesSkipsFailures(t *testing.T) {
	broken := "0x00000000000000000000000000000000DeaDBeef"
	node := fakeSafe("1.3.0").Return(dai, "balanceOf", big.NewInt(99))
	list := tokens.NewTokenList(
		tokens.NativeToken(networks.EthereumMainnet),
		tokens.Token{Address: dai, Symbol: "DAI", Decimals: 18},
		tokens.Token{Address: broken, Symbol: "BRK", Decimals: 18},
	)

	balances := FetchTokenBalances(safeAddr, list, readerFor(node))
	require.Len(t, balances, 2)
	assert.Equal(t, tokens.Balance{TokenAddress: tokens.NativeTokenAddress, TokenBalance: "1000"}, balances[0])
	assert.Equal(t, tokens.Balance{TokenAddress: dai, TokenBalance: "99"}, balances[1])
}
