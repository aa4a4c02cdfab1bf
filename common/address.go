package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var addressRegexp = regexp.MustCompile(`(?:^|[^a-zA-Z0-9])(0x[0-9a-fA-F]{40})(?:$|[^a-zA-Z0-9])`)

func IsAddress(addr string) bool {
	return common.IsHexAddress(addr) && strings.HasPrefix(addr, "0x")
}

// ParsePrefixedAddress accepts "0x..." or the EIP-3770 form "eth:0x..." and
// returns the short name (possibly empty) and the checksummed address.
func ParsePrefixedAddress(str string) (shortName string, addr common.Address, err error) {
	str = strings.TrimSpace(str)
	if i := strings.LastIndex(str, ":"); i >= 0 {
		shortName = str[:i]
		str = str[i+1:]
	}
	if !IsAddress(str) {
		return "", common.Address{}, fmt.Errorf("%q is not a valid address", str)
	}
	return shortName, common.HexToAddress(str), nil
}

// ScanForAddresses returns every hex address found in para.
func ScanForAddresses(para string) []string {
	result := []string{}
	for _, m := range addressRegexp.FindAllStringSubmatch(para, -1) {
		result = append(result, m[1])
	}
	return result
}

func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
