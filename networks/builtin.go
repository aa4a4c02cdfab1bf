package networks

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "mainnet",
	ShortName:          "eth",
	AlternativeNames:   []string{"ethereum"},
	ChainID:            1,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-rpc.publicnode.com",
		"llamarpc":   "https://eth.llamarpc.com",
	},
})

var GnosisChain Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "gnosis",
	ShortName:          "gno",
	AlternativeNames:   []string{"xdai"},
	ChainID:            100,
	NativeTokenSymbol:  "XDAI",
	NativeTokenDecimal: 18,
	BlockTime:          5,
	NodeVariableName:   "GNOSIS_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"gnosischain": "https://rpc.gnosischain.com",
	},
	L2: true,
})

var Polygon Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "polygon",
	ShortName:          "matic",
	AlternativeNames:   []string{"matic"},
	ChainID:            137,
	NativeTokenSymbol:  "POL",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "POLYGON_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"polygon-rpc": "https://polygon-rpc.com",
	},
	L2: true,
})

var BSCMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "bsc",
	ShortName:          "bnb",
	AlternativeNames:   []string{"binance"},
	ChainID:            56,
	NativeTokenSymbol:  "BNB",
	NativeTokenDecimal: 18,
	BlockTime:          3,
	NodeVariableName:   "BSC_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"binance": "https://bsc-dataseed.binance.org",
		"defibit": "https://bsc-dataseed1.defibit.io",
	},
	L2: true,
})

var ArbitrumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "arbitrum",
	ShortName:          "arb1",
	AlternativeNames:   []string{"arb"},
	ChainID:            42161,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          1,
	NodeVariableName:   "ARBITRUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"arbitrum": "https://arb1.arbitrum.io/rpc",
	},
	L2: true,
})

var OptimismMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "optimism",
	ShortName:          "oeth",
	AlternativeNames:   []string{"op"},
	ChainID:            10,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "OPTIMISM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"optimism": "https://mainnet.optimism.io",
	},
	L2: true,
})

var BaseMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "base",
	ShortName:          "base",
	ChainID:            8453,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "BASE_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"public-base": "https://mainnet.base.org",
	},
	L2: true,
})

var Avalanche Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "avalanche",
	ShortName:          "avax",
	AlternativeNames:   []string{"avax"},
	ChainID:            43114,
	NativeTokenSymbol:  "AVAX",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "AVALANCHE_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"avax-network": "https://api.avax.network/ext/bc/C/rpc",
	},
	L2: true,
})

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "sepolia",
	ShortName:          "sep",
	ChainID:            11155111,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
	},
})
