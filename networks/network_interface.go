package networks

import (
	"time"
)

type Network interface {
	GetName() string
	// GetShortName returns the EIP-3770 chain prefix, e.g. "eth" in "eth:0x...".
	GetShortName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// IsL2 reports whether Safes on this chain should use the L2 singleton
	// (the one that emits events for every execution).
	IsL2() bool

	MarshalJSON() ([]byte, error)
}
