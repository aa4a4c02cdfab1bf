package common

import (
	"math/big"
	"testing"
)

func TestBigToFloatString(t *testing.T) {
	cases := []struct {
		value   *big.Int
		decimal uint64
		want    string
	}{
		{big.NewInt(1100), 3, "1.1"},
		{big.NewInt(1100), 2, "11"},
		{big.NewInt(1100), 5, "0.011"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(1500), 0, "1500"},
		{nil, 18, "0"},
	}
	for _, c := range cases {
		if got := BigToFloatString(c.value, c.decimal); got != c.want {
			t.Fatalf("BigToFloatString(%v, %d) = %s, want %s", c.value, c.decimal, got, c.want)
		}
	}
}

func TestFloatStringToBig(t *testing.T) {
	got, err := FloatStringToBig("1.5", 18)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.String() != "1500000000000000000" {
		t.Fatalf("got %s", got)
	}
	if _, err := FloatStringToBig("abc", 18); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParsePrefixedAddress(t *testing.T) {
	short, addr, err := ParsePrefixedAddress("eth:0x000000000000000000000000000000000000dead")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if short != "eth" || addr.Hex() != "0x000000000000000000000000000000000000dEaD" {
		t.Fatalf("got %s %s", short, addr.Hex())
	}

	short, _, err = ParsePrefixedAddress("0x000000000000000000000000000000000000dead")
	if err != nil || short != "" {
		t.Fatalf("got %q %v", short, err)
	}

	if _, _, err := ParsePrefixedAddress("eth:0x1234"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestScanForAddresses(t *testing.T) {
	got := ScanForAddresses("/eth:0x000000000000000000000000000000000000dEaD/balances and 0x0000000000000000000000000000000000000001")
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}
