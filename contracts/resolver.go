package contracts

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

var ErrDeploymentNotFound = errors.New("deployment not found")

// Addresses used when the registry has nothing for the requested contract.
const (
	SafeMasterCopyAddressV10        = "0xb6029EA3B2c51D09a50B53CA8012FeEB05bDa35A"
	DefaultFallbackHandlerAddress   = "0xd5D82B6aDDc9027B22dCA772Aa68D5d74cdBdF44"
	DefaultMultiSendAddress         = "0x8D29bE29923b68abfDD21e541b9374737B49cdAD"
	DefaultProxyFactoryAddress      = "0x76E2cFc1F5Fa8F6a5b3fC4c8F4788F0116861F9B"
	DefaultMultiSendCallOnlyAddress = "0x40A2aCCbd92BCA938b02010E17A5b8929b49130D"
	DefaultSignMessageLibAddress    = "0xA65387F16B013cf2Af4605Ad8aA5ec25a2cbA3a2"
	DefaultCreateCallAddress        = "0x7cbB62EaA69F79e6873cD1ecB2392971036cFAa4"

	// oldest singleton still (partially) supported, used for pre 1.0.0 Safes
	OldestSupportedVersion = "1.0.0"
)

// Resolver picks singleton deployments for a network and Safe version.
type Resolver struct {
	registry *deployments.Registry
	log      *logrus.Entry
}

func NewResolver(registry *deployments.Registry) *Resolver {
	return &Resolver{
		registry: registry,
		log:      logrus.WithField("component", "contracts"),
	}
}

func DefaultResolver() *Resolver {
	return NewResolver(deployments.Default())
}

func (r *Resolver) Registry() *deployments.Registry {
	return r.registry
}

// satisfies reports whether version is inside constraint. Unparsable
// versions never satisfy anything.
func satisfies(version, constraint string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// exactVersion turns a Safe reported version such as "1.3.0+L2" into an
// exact registry constraint. Strings that are not semver are passed through
// and will simply not match.
func exactVersion(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return version
	}
	clean, err := v.SetMetadata("")
	if err != nil {
		return version
	}
	return "=" + clean.String()
}

func chainKey(network networks.Network) string {
	return strconv.FormatUint(network.GetChainID(), 10)
}

// find tries the network specific deployment of version first, then any
// deployment of version.
func (r *Resolver) find(contract deployments.Contract, version string, network networks.Network) (*deployments.Deployment, bool) {
	exact := exactVersion(version)
	if d, found := r.registry.Find(contract, deployments.Filter{Version: exact, Network: chainKey(network)}); found {
		return d, true
	}
	return r.registry.Find(contract, deployments.Filter{Version: exact})
}

// SafeSingleton returns the singleton deployment a Safe of the given version
// runs on. L2 chains use the L2 singleton from 1.3.0 on; Safes older than
// 1.0.0 get the 1.0.0 deployment so they stay readable.
func (r *Resolver) SafeSingleton(version string, network networks.Network) (*deployments.Deployment, error) {
	useOldest := satisfies(version, "<"+OldestSupportedVersion)
	contract := deployments.GnosisSafe
	// Some L2 chains had L1 singletons before 1.3.0, so the version gate is
	// needed on top of the chain flag.
	if network.IsL2() && satisfies(version, ">=1.3.0") {
		contract = deployments.GnosisSafeL2
	}

	if d, found := r.find(contract, version, network); found {
		return d, nil
	}
	if useOldest {
		if d, found := r.find(contract, OldestSupportedVersion, network); found {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%s version %q on chain %d: %w", contract, version, network.GetChainID(), ErrDeploymentNotFound)
}

// SafeSingletonAddress is SafeSingleton's address on network, falling back to
// the 1.0.0 master copy when nothing matches.
func (r *Resolver) SafeSingletonAddress(version string, network networks.Network) common.Address {
	d, err := r.SafeSingleton(version, network)
	if err != nil {
		r.log.WithError(err).Warnf("using fallback safe master copy %s", SafeMasterCopyAddressV10)
		return common.HexToAddress(SafeMasterCopyAddressV10)
	}
	return d.Address(network.GetChainID())
}

// Latest returns the LatestVersion deployment of contract for network.
func (r *Resolver) Latest(contract deployments.Contract, network networks.Network) (*deployments.Deployment, error) {
	if d, found := r.find(contract, deployments.LatestVersion, network); found {
		return d, nil
	}
	return nil, fmt.Errorf("%s version %s on chain %d: %w", contract, deployments.LatestVersion, network.GetChainID(), ErrDeploymentNotFound)
}

// Deployment returns version of contract for network, the latest version
// when version is empty. Safe singletons go through SafeSingleton so the L2
// and pre 1.0.0 rules apply.
func (r *Resolver) Deployment(contract deployments.Contract, version string, network networks.Network) (*deployments.Deployment, error) {
	if version == "" {
		version = deployments.LatestVersion
	}
	if contract == deployments.GnosisSafe || contract == deployments.GnosisSafeL2 {
		return r.SafeSingleton(version, network)
	}
	if d, found := r.find(contract, version, network); found {
		return d, nil
	}
	return nil, fmt.Errorf("%s version %q on chain %d: %w", contract, version, network.GetChainID(), ErrDeploymentNotFound)
}

func (r *Resolver) latestAddress(contract deployments.Contract, network networks.Network, fallback string) common.Address {
	d, err := r.Latest(contract, network)
	if err != nil {
		r.log.WithError(err).Warnf("using fallback %s address %s", contract, fallback)
		return common.HexToAddress(fallback)
	}
	return d.Address(network.GetChainID())
}

func (r *Resolver) ProxyFactoryAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.ProxyFactory, network, DefaultProxyFactoryAddress)
}

func (r *Resolver) MultiSendAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.MultiSend, network, DefaultMultiSendAddress)
}

func (r *Resolver) MultiSendCallOnlyAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.MultiSendCallOnly, network, DefaultMultiSendCallOnlyAddress)
}

func (r *Resolver) FallbackHandlerAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.CompatibilityFallbackHandler, network, DefaultFallbackHandlerAddress)
}

func (r *Resolver) SignMessageLibAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.SignMessageLib, network, DefaultSignMessageLibAddress)
}

func (r *Resolver) CreateCallAddress(network networks.Network) common.Address {
	return r.latestAddress(deployments.CreateCall, network, DefaultCreateCallAddress)
}
