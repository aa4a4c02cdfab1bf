package networks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"
)

// Insert more Network values here to support more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	GnosisChain,
	Polygon,
	BSCMainnet,
	ArbitrumMainnet,
	OptimismMainnet,
	BaseMainnet,
	Avalanche,
	Sepolia,
}

var (
	ErrNetworkNotFound = errors.New("network not found")

	// CustomNetworksDir is where user supplied network json files live. It is
	// read the first time the registry is used.
	CustomNetworksDir = defaultCustomNetworksDir()

	globalSupportedNetworks *networks
	registryOnce            sync.Once
	log                     = logrus.WithField("component", "networks")
)

func defaultCustomNetworksDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".safeops", "networks")
	}
	return filepath.Join(home, ".safeops", "networks")
}

type networks struct {
	mu           sync.RWMutex
	networks     map[string]Network
	networksByID map[uint64]Network
	shortNames   map[string]Network
}

func registry() *networks {
	registryOnce.Do(func() {
		globalSupportedNetworks = newSupportedNetworks(supportedNetworks, CustomNetworksDir)
	})
	return globalSupportedNetworks
}

func (n *networks) getSupportedNetworkNames() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[strings.ToLower(name)]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetworkByShortName(short string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.shortNames[strings.ToLower(short)]
	if !found {
		return nil, fmt.Errorf("network short name '%s': %w", short, ErrNetworkNotFound)
	}
	return res, nil
}

// add registers network under its name, alternative names, short name and
// chain id. Later registrations win, which is how custom networks override
// built-in ones.
func (n *networks) add(network Network) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.networks[strings.ToLower(network.GetName())] = network
	n.networksByID[network.GetChainID()] = network
	n.shortNames[strings.ToLower(network.GetShortName())] = network
	for _, an := range network.GetAlternativeNames() {
		n.networks[strings.ToLower(an)] = network
	}
}

func (n *networks) all() []Network {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := make([]Network, 0, len(n.networksByID))
	for _, network := range n.networksByID {
		res = append(res, network)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].GetChainID() < res[j].GetChainID()
	})
	return res
}

func newSupportedNetworks(builtin []Network, customDir string) *networks {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
		shortNames:   map[string]Network{},
	}
	for _, n := range builtin {
		names := append([]string{n.GetName()}, n.GetAlternativeNames()...)
		for _, name := range names {
			if _, found := result.networks[strings.ToLower(name)]; found {
				panic(fmt.Errorf("network with name or alternative name of '%s' already exists", name))
			}
		}
		result.add(n)
	}

	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		log.WithError(err).Warn("failed to load custom networks, continuing with built-in networks")
		return result
	}

	for _, n := range customNetworks {
		if _, found := result.networks[strings.ToLower(n.GetName())]; found {
			log.Infof("network with name '%s' already exists, using custom network", n.GetName())
		}
		if _, found := result.networksByID[n.GetChainID()]; found {
			log.Infof("network with id '%d' already exists, using custom network", n.GetChainID())
		}
		result.add(n)
	}
	return result
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	networks := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			log.WithError(err).Warnf("failed to parse network from file %s, skipping", file)
			continue
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	if networkConfig.ChainID == 0 {
		return nil, fmt.Errorf("network config %s has no chain id", networkConfig.Name)
	}
	return NewGenericNetwork(networkConfig), nil
}

// GetSupportedNetworks returns every known network ordered by chain id.
func GetSupportedNetworks() []Network {
	return registry().all()
}

func GetNetwork(name string) (Network, error) {
	return registry().getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return registry().getNetworkByID(id)
}

func GetNetworkByShortName(short string) (Network, error) {
	return registry().getNetworkByShortName(short)
}

func GetSupportedNetworkNames() []string {
	return registry().getSupportedNetworkNames()
}

// Suggest returns up to three known network names close to input.
func Suggest(input string) []string {
	names := GetSupportedNetworkNames()
	matches := fuzzy.Find(strings.ToLower(input), names)
	res := []string{}
	for i := 0; i < len(matches) && i < 3; i++ {
		res = append(res, matches[i].Str)
	}
	return res
}

// AddNetwork registers network for this process and persists it to
// CustomNetworksDir so later runs pick it up.
func AddNetwork(network Network) error {
	registry().add(network)

	if err := os.MkdirAll(CustomNetworksDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", CustomNetworksDir, err)
	}

	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	path := filepath.Join(CustomNetworksDir, fmt.Sprintf("%s.json", network.GetName()))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
