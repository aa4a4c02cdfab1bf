package tokens

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	opscommon "github.com/tranvictor/safeops/common"
	"github.com/tranvictor/safeops/networks"
)

// NativeTokenAddress stands in for the chain's native currency in token
// lists and balances.
const NativeTokenAddress = "0x0000000000000000000000000000000000000000"

type Token struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint64 `json:"decimals"`
	LogoURI  string `json:"logoUri,omitempty"`
}

type Balance struct {
	TokenAddress   string `json:"tokenAddress"`
	TokenBalance   string `json:"tokenBalance"`
	FiatBalance    string `json:"fiatBalance,omitempty"`
	FiatConversion string `json:"fiatConversion,omitempty"`
}

type TokenWithBalance struct {
	Token
	Balance Balance `json:"balance"`
}

// HumanBalance is the token balance in whole units, e.g. "1.5".
func (t TokenWithBalance) HumanBalance() string {
	return opscommon.BigToFloatString(opscommon.StringToBig(t.Balance.TokenBalance), t.Decimals)
}

func NativeToken(network networks.Network) Token {
	return Token{
		Address:  NativeTokenAddress,
		Name:     network.GetNativeTokenSymbol(),
		Symbol:   network.GetNativeTokenSymbol(),
		Decimals: network.GetNativeTokenDecimal(),
	}
}

func key(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// TokenList is a set of tokens keyed by address, case insensitively. It
// remembers insertion order.
type TokenList struct {
	tokens map[string]Token
	order  []string
}

func NewTokenList(tokens ...Token) *TokenList {
	l := &TokenList{tokens: map[string]Token{}}
	for _, t := range tokens {
		l.Add(t)
	}
	return l
}

// Add inserts t, replacing any token with the same address.
func (l *TokenList) Add(t Token) {
	k := key(t.Address)
	if _, found := l.tokens[k]; !found {
		l.order = append(l.order, k)
	}
	l.tokens[k] = t
}

func (l *TokenList) Get(addr string) (Token, bool) {
	if l == nil {
		return Token{}, false
	}
	t, found := l.tokens[key(addr)]
	return t, found
}

func (l *TokenList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tokens)
}

func (l *TokenList) Tokens() []Token {
	if l == nil {
		return []Token{}
	}
	res := make([]Token, 0, len(l.order))
	for _, k := range l.order {
		res = append(res, l.tokens[k])
	}
	return res
}

func (l *TokenList) Addresses() []string {
	res := []string{}
	for _, t := range l.Tokens() {
		res = append(res, t.Address)
	}
	return res
}

type tokenListFile struct {
	Tokens []Token `json:"tokens"`
}

// ParseTokenList reads either a bare JSON array of tokens or a token list
// document with a "tokens" field.
func ParseTokenList(raw []byte) (*TokenList, error) {
	trimmed := strings.TrimSpace(string(raw))
	var tokens []Token
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &tokens); err != nil {
			return nil, fmt.Errorf("failed to decode token list: %w", err)
		}
	} else {
		doc := tokenListFile{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode token list: %w", err)
		}
		tokens = doc.Tokens
	}
	for _, t := range tokens {
		if !common.IsHexAddress(t.Address) {
			return nil, fmt.Errorf("token %s has invalid address %q", t.Symbol, t.Address)
		}
	}
	return NewTokenList(tokens...), nil
}
