package deployments

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/sahilm/fuzzy"
)

// LatestVersion is the newest singleton version this client creates Safes
// with.
const LatestVersion = "1.3.0"

//go:embed assets
var assets embed.FS

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Filter narrows a registry lookup. Version is a semver constraint such as
// "1.3.0", ">=1.1.0" or "<1.0.0"; empty matches any version. Network is a
// decimal chain id; when set, only deployments with an address registered
// for that chain match. Released defaults to true.
type Filter struct {
	Version  string
	Network  string
	Released *bool
}

type Registry struct {
	// newest version first
	deployments map[Contract][]*Deployment
}

// Default returns the registry built from the bundled descriptors.
func Default() *Registry {
	defaultOnce.Do(func() {
		root, err := fs.Sub(assets, "assets")
		if err != nil {
			panic(err)
		}
		defaultRegistry, err = Load(root)
		if err != nil {
			panic(fmt.Errorf("bundled deployments are invalid: %w", err))
		}
	})
	return defaultRegistry
}

// Load reads every */<contract>.json descriptor found in fsys.
func Load(fsys fs.FS) (*Registry, error) {
	r := &Registry{deployments: map[Contract][]*Deployment{}}
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || path.Ext(p) != ".json" {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		contract := Contract(strings.TrimSuffix(path.Base(p), ".json"))
		d, err := parseDeployment(contract, content)
		if err != nil {
			return err
		}
		r.deployments[contract] = append(r.deployments[contract], d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, ds := range r.deployments {
		sort.Slice(ds, func(i, j int) bool {
			return ds[i].semver.GreaterThan(ds[j].semver)
		})
	}
	return r, nil
}

// Find returns the newest deployment of contract matching filter.
func (r *Registry) Find(contract Contract, filter Filter) (*Deployment, bool) {
	var constraint *semver.Constraints
	if filter.Version != "" {
		c, err := semver.NewConstraint(filter.Version)
		if err != nil {
			return nil, false
		}
		constraint = c
	}
	released := true
	if filter.Released != nil {
		released = *filter.Released
	}

	for _, d := range r.deployments[contract] {
		if d.Released != released {
			continue
		}
		if constraint != nil && !constraint.Check(d.semver) {
			continue
		}
		if filter.Network != "" {
			if _, found := d.NetworkAddresses[filter.Network]; !found {
				continue
			}
		}
		return d, true
	}
	return nil, false
}

// Contracts returns every contract family in the registry, sorted by name.
func (r *Registry) Contracts() []Contract {
	res := make([]Contract, 0, len(r.deployments))
	for c := range r.deployments {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Versions returns the bundled versions of contract, newest first.
func (r *Registry) Versions(contract Contract) []string {
	res := []string{}
	for _, d := range r.deployments[contract] {
		res = append(res, d.Version)
	}
	return res
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, "-", "")
}

// ParseContract accepts either the descriptor name ("proxy_factory") or a
// contract name as published on chain ("GnosisSafeProxyFactory").
func (r *Registry) ParseContract(name string) (Contract, error) {
	want := normalizeName(name)
	for c, ds := range r.deployments {
		if normalizeName(string(c)) == want {
			return c, nil
		}
		for _, d := range ds {
			if normalizeName(d.ContractName) == want {
				return c, nil
			}
		}
	}
	return "", fmt.Errorf("unknown contract %q", name)
}

// Suggest returns contract families whose name fuzzily matches input.
func (r *Registry) Suggest(input string) []Contract {
	contracts := r.Contracts()
	names := make([]string, len(contracts))
	for i, c := range contracts {
		names[i] = string(c)
	}
	res := []Contract{}
	for _, m := range fuzzy.Find(strings.ToLower(input), names) {
		res = append(res, contracts[m.Index])
	}
	return res
}
