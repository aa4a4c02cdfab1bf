package networks

import (
	"sync"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

// NetworkString is the network name selected by the --network flag.
var NetworkString string

func CurrentNetwork() Network {
	mu.Lock()
	n := cachedNetwork
	mu.Unlock()
	if n != nil {
		return n
	}

	SetNetwork(NetworkString)

	mu.Lock()
	defer mu.Unlock()
	return cachedNetwork
}

// SetNetwork switches the process wide network. Unknown names fall back to
// mainnet.
func SetNetwork(networkStr string) {
	mu.Lock()
	defer mu.Unlock()

	inited := cachedNetwork != nil

	n, err := GetNetwork(networkStr)
	if err != nil {
		if networkStr != "" {
			log.WithError(err).Warnf("unknown network, falling back to %s", EthereumMainnet.GetName())
		}
		n = EthereumMainnet
	}
	cachedNetwork = n

	if inited {
		log.Debugf("switched to network: %s", n.GetName())
	} else {
		log.Debugf("network: %s", n.GetName())
	}
}
