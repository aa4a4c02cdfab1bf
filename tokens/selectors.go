package tokens

import (
	"bytes"
	"encoding/json"
	"math/big"
	"sort"

	"github.com/tranvictor/safeops/monitoring"
)

const MalformedBalancesEvent = "malformed_balances"

// ExtendedSafeTokens joins balances with their token metadata. The result
// has one record per balance whose token is in list, in balance order;
// balances of unknown tokens are skipped.
func ExtendedSafeTokens(list *TokenList, balances []Balance) []TokenWithBalance {
	res := []TokenWithBalance{}
	for _, b := range balances {
		t, found := list.Get(b.TokenAddress)
		if !found {
			continue
		}
		res = append(res, TokenWithBalance{Token: t, Balance: b})
	}
	return res
}

func jsonKind(raw []byte) string {
	switch raw[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '[':
		return "array"
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		return "number"
	}
	return "invalid"
}

// DecodeBalances decodes persisted balances. Anything that is not a JSON
// array of balances is reported to reporter, monitoring.Default() when nil,
// and yields no balances. Elements without a token address are dropped and
// reported the same way.
func DecodeBalances(raw []byte, reporter monitoring.Reporter) []Balance {
	if reporter == nil {
		reporter = monitoring.Default()
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Balance{}
	}

	kind := jsonKind(raw)
	if kind != "array" {
		reporter.Capture(MalformedBalancesEvent, map[string]interface{}{"kind": kind})
		return []Balance{}
	}

	decoded := []Balance{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		reporter.Capture(MalformedBalancesEvent, map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return []Balance{}
	}

	balances := make([]Balance, 0, len(decoded))
	for _, b := range decoded {
		if b.TokenAddress == "" {
			continue
		}
		balances = append(balances, b)
	}
	if dropped := len(decoded) - len(balances); dropped > 0 {
		reporter.Capture(MalformedBalancesEvent, map[string]interface{}{
			"kind":    kind,
			"dropped": dropped,
		})
	}
	return balances
}

func parseFiat(s string) (*big.Float, bool) {
	if s == "" {
		return nil, false
	}
	f, ok := new(big.Float).SetPrec(128).SetString(s)
	return f, ok
}

// TotalFiatBalance sums the fiat value of balances, two decimals.
func TotalFiatBalance(balances []Balance) string {
	total := new(big.Float).SetPrec(128)
	for _, b := range balances {
		if f, ok := parseFiat(b.FiatBalance); ok {
			total.Add(total, f)
		}
	}
	return total.Text('f', 2)
}

// FilterZeroBalances drops tokens the Safe holds none of.
func FilterZeroBalances(list []TokenWithBalance) []TokenWithBalance {
	res := []TokenWithBalance{}
	for _, t := range list {
		b, ok := new(big.Int).SetString(t.Balance.TokenBalance, 10)
		if !ok || b.Sign() == 0 {
			continue
		}
		res = append(res, t)
	}
	return res
}

// SortByFiat returns a copy of list ordered by fiat balance, highest first.
// Ties keep their original order.
func SortByFiat(list []TokenWithBalance) []TokenWithBalance {
	res := append([]TokenWithBalance{}, list...)
	value := func(t TokenWithBalance) *big.Float {
		if f, ok := parseFiat(t.Balance.FiatBalance); ok {
			return f
		}
		return new(big.Float)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return value(res[i]).Cmp(value(res[j])) > 0
	})
	return res
}
