package deployments

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract identifies a singleton contract family. The value is the base
// name of its descriptor files under assets/.
type Contract string

const (
	GnosisSafe                   Contract = "gnosis_safe"
	GnosisSafeL2                 Contract = "gnosis_safe_l2"
	ProxyFactory                 Contract = "proxy_factory"
	MultiSend                    Contract = "multi_send"
	MultiSendCallOnly            Contract = "multi_send_call_only"
	DefaultCallbackHandler       Contract = "default_callback_handler"
	CompatibilityFallbackHandler Contract = "compatibility_fallback_handler"
	SignMessageLib               Contract = "sign_message_lib"
	CreateCall                   Contract = "create_call"
)

// Deployment is one released version of a singleton contract together with
// the addresses it is deployed at.
type Deployment struct {
	Contract         Contract          `json:"-"`
	ContractName     string            `json:"contractName"`
	Version          string            `json:"version"`
	Released         bool              `json:"released"`
	DefaultAddress   string            `json:"defaultAddress"`
	NetworkAddresses map[string]string `json:"networkAddresses"`
	ABIJSON          json.RawMessage   `json:"abi"`

	semver  *semver.Version
	abiOnce sync.Once
	abi     *abi.ABI
	abiErr  error
}

func parseDeployment(contract Contract, content []byte) (*Deployment, error) {
	d := &Deployment{}
	if err := json.Unmarshal(content, d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s deployment: %w", contract, err)
	}
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("%s has invalid version %q: %w", contract, d.Version, err)
	}
	if !common.IsHexAddress(d.DefaultAddress) {
		return nil, fmt.Errorf("%s %s has invalid default address %q", contract, d.Version, d.DefaultAddress)
	}
	for chainID, addr := range d.NetworkAddresses {
		if _, err := strconv.ParseUint(chainID, 10, 64); err != nil {
			return nil, fmt.Errorf("%s %s has invalid chain id %q", contract, d.Version, chainID)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("%s %s has invalid address %q on chain %s", contract, d.Version, addr, chainID)
		}
	}
	d.Contract = contract
	d.semver = v
	return d, nil
}

func (d *Deployment) SemVer() *semver.Version {
	return d.semver
}

// NetworkAddress returns the address registered for chainID, if any.
func (d *Deployment) NetworkAddress(chainID uint64) (common.Address, bool) {
	addr, found := d.NetworkAddresses[strconv.FormatUint(chainID, 10)]
	if !found {
		return common.Address{}, false
	}
	return common.HexToAddress(addr), true
}

// Address returns the chain specific address, or the default address when
// the chain has no entry.
func (d *Deployment) Address(chainID uint64) common.Address {
	if addr, found := d.NetworkAddress(chainID); found {
		return addr
	}
	return common.HexToAddress(d.DefaultAddress)
}

// ParsedABI parses the bundled ABI once and caches the result.
func (d *Deployment) ParsedABI() (*abi.ABI, error) {
	d.abiOnce.Do(func() {
		a, err := abi.JSON(strings.NewReader(string(d.ABIJSON)))
		if err != nil {
			d.abiErr = fmt.Errorf("failed to parse %s %s abi: %w", d.Contract, d.Version, err)
			return
		}
		d.abi = &a
	})
	return d.abi, d.abiErr
}

func (d *Deployment) String() string {
	return fmt.Sprintf("%s@%s", d.ContractName, d.Version)
}
