package contracts

import (
	"testing"
	"testing/fstest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

func testNetwork(chainID uint64, l2 bool) networks.Network {
	return networks.NewGenericNetwork(networks.GenericNetworkConfig{
		Name:    "test",
		ChainID: chainID,
		L2:      l2,
	})
}

func TestSafeSingletonNetworkSpecificEntryWins(t *testing.T) {
	r := DefaultResolver()

	d, err := r.SafeSingleton("1.3.0", testNetwork(1, false))
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafe, d.Contract)

	addr := r.SafeSingletonAddress("1.3.0", testNetwork(10, false))
	assert.Equal(t, common.HexToAddress("0x69f4D1788e39c87893C980c06EdF4b7f686e2938"), addr)
}

func TestSafeSingletonUsesL2TableFrom130(t *testing.T) {
	r := DefaultResolver()

	d, err := r.SafeSingleton("1.3.0", testNetwork(137, true))
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafeL2, d.Contract)

	d, err = r.SafeSingleton("1.3.0+L2", testNetwork(8453, true))
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafeL2, d.Contract)
	assert.Equal(t, common.HexToAddress("0xfb1bffC9d739B8D520DaF37dF666da4C687191EA"), d.Address(8453))

	// an L2 chain running an old L1 singleton
	d, err = r.SafeSingleton("1.1.1", testNetwork(100, true))
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafe, d.Contract)
	assert.Equal(t, "1.1.1", d.Version)
}

func TestSafeSingletonFallsBackToVersionOnlyEntry(t *testing.T) {
	r := DefaultResolver()

	d, err := r.SafeSingleton("1.2.0", testNetwork(137, true))
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", d.Version)
	assert.Equal(t, common.HexToAddress("0x6851D6fDFAfD08c0295C392436245E5bc78B0185"), d.Address(137))
}

func TestSafeSingletonLegacyVersions(t *testing.T) {
	r := DefaultResolver()

	d, err := r.SafeSingleton("0.1.0", testNetwork(1, false))
	require.NoError(t, err)
	assert.Equal(t, OldestSupportedVersion, d.Version)

	d, err = r.SafeSingleton("0.0.2", testNetwork(424242, true))
	require.NoError(t, err)
	assert.Equal(t, OldestSupportedVersion, d.Version)
}

func TestSafeSingletonMissFallsBackToLiteral(t *testing.T) {
	r := DefaultResolver()

	_, err := r.SafeSingleton("2.0.0", testNetwork(1, false))
	assert.ErrorIs(t, err, ErrDeploymentNotFound)

	_, err = r.SafeSingleton("garbage", testNetwork(1, false))
	assert.ErrorIs(t, err, ErrDeploymentNotFound)

	assert.Equal(t, common.HexToAddress(SafeMasterCopyAddressV10), r.SafeSingletonAddress("2.0.0", testNetwork(1, false)))
}

func TestLatestContractAddresses(t *testing.T) {
	r := DefaultResolver()
	mainnet := testNetwork(1, false)
	optimism := testNetwork(10, true)
	unknown := testNetwork(999999, false)

	assert.Equal(t, common.HexToAddress("0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2"), r.ProxyFactoryAddress(mainnet))
	assert.Equal(t, common.HexToAddress("0xC22834581EbC8527d974F8a1c97E1bEA4EF910BC"), r.ProxyFactoryAddress(optimism))
	assert.Equal(t, common.HexToAddress("0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2"), r.ProxyFactoryAddress(unknown))

	assert.Equal(t, common.HexToAddress("0xA238CBeb142c10Ef7Ad8442C6D1f9E89e07e7761"), r.MultiSendAddress(mainnet))
	assert.Equal(t, common.HexToAddress("0x40A2aCCbd92BCA938b02010E17A5b8929b49130D"), r.MultiSendCallOnlyAddress(unknown))
	assert.Equal(t, common.HexToAddress("0xf48f2B2d2a534e402487b3ee7C18c33Aec0Fe5e4"), r.FallbackHandlerAddress(mainnet))
	assert.Equal(t, common.HexToAddress("0x98FFBBF51bb33A056B08ddf711f289936AafF717"), r.SignMessageLibAddress(optimism))
	assert.Equal(t, common.HexToAddress("0x7cbB62EaA69F79e6873cD1ecB2392971036cFAa4"), r.CreateCallAddress(mainnet))
}

func TestLatestFallsBackToLiteralWhenRegistryIsEmpty(t *testing.T) {
	empty, err := deployments.Load(fstest.MapFS{})
	require.NoError(t, err)
	r := NewResolver(empty)
	mainnet := testNetwork(1, false)

	assert.Equal(t, common.HexToAddress(DefaultMultiSendAddress), r.MultiSendAddress(mainnet))
	assert.Equal(t, common.HexToAddress(DefaultFallbackHandlerAddress), r.FallbackHandlerAddress(mainnet))
	assert.Equal(t, common.HexToAddress(DefaultProxyFactoryAddress), r.ProxyFactoryAddress(mainnet))
	assert.Equal(t, common.HexToAddress(SafeMasterCopyAddressV10), r.SafeSingletonAddress("1.3.0", mainnet))
}

func TestDeployment(t *testing.T) {
	r := DefaultResolver()
	polygon := testNetwork(137, true)

	d, err := r.Deployment(deployments.MultiSend, "", polygon)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", d.Version)

	d, err = r.Deployment(deployments.MultiSend, "1.1.1", polygon)
	require.NoError(t, err)
	assert.Equal(t, "1.1.1", d.Version)

	d, err = r.Deployment(deployments.GnosisSafe, "1.3.0", polygon)
	require.NoError(t, err)
	assert.Equal(t, deployments.GnosisSafeL2, d.Contract)

	_, err = r.Deployment(deployments.CreateCall, "1.1.1", polygon)
	assert.ErrorIs(t, err, ErrDeploymentNotFound)
}
