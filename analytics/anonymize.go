package analytics

import (
	"regexp"
	"strings"
)

const (
	SafeAddressPlaceholder   = "SAFE_ADDRESS"
	TransactionIDPlaceholder = "TRANSACTION_ID"
)

// a Safe address, optionally with an EIP-3770 prefix such as "eth:"
var safeAddressSegment = regexp.MustCompile(`^([a-zA-Z0-9-]+:)?0x[0-9a-fA-F]{40}$`)

// AnonymizePath strips everything identifying from a page path before it is
// reported: Safe addresses, transaction ids and the query string.
func AnonymizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case safeAddressSegment.MatchString(seg):
			segments[i] = SafeAddressPlaceholder
		case i > 0 && segments[i-1] == "transactions" && seg != "":
			segments[i] = TransactionIDPlaceholder
		}
	}
	return strings.Join(segments, "/")
}
