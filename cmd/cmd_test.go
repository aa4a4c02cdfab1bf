package cmd

import (
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/safeops/analytics"
	"github.com/tranvictor/safeops/config"
	"github.com/tranvictor/safeops/monitoring"
	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/safe"
	"github.com/tranvictor/safeops/ui"
	"github.com/tranvictor/safeops/util/cache"
	"github.com/tranvictor/safeops/util/reader"
	"github.com/tranvictor/safeops/util/reader/readertest"
)

const (
	testSafe  = "0x1111111111111111111111111111111111111111"
	testOwner = "0xAAAaAAAaaAaAaaaAaAaAAAAAAaaaaAAaaaaAaAaa"
	testDAI   = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "safeops-cmd")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", home)
	networks.CustomNetworksDir = filepath.Join(home, "networks")
	code := m.Run()
	os.RemoveAll(home)
	os.Exit(code)
}

type harness struct {
	t     *testing.T
	cache string
	node  *readertest.FakeNode
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:     t,
		cache: filepath.Join(t.TempDir(), "cache.json"),
		node:  readertest.NewFakeNode("fake"),
	}
	newReader = func(network networks.Network) (safe.ContractReader, error) {
		return reader.NewEthReaderWithNodes(map[string]reader.EthereumNode{"fake": h.node}), nil
	}
	return h
}

// run executes the command line with flags reset to their defaults.
func (h *harness) run(network string, args ...string) *ui.RecordingUI {
	DeploymentVersion = ""
	SafeJSON, TokenListFile, BalancesCached, BalancesAll = false, "", false, false
	Owners, Threshold, SaltNonce, PredictAddress = nil, 1, "0", false
	ConsentAccept, ConsentRevoke = false, false
	config.MetricsFile = ""

	rec := ui.NewRecordingUI()
	appUI = rec
	rootCmd.SetArgs(append(args, "--network", network, "--cache", h.cache))
	require.NoError(h.t, rootCmd.Execute())
	return rec
}

func appCacheFor(h *harness) *cache.Cache {
	return cache.New(h.cache)
}

func (h *harness) withSafe() *harness {
	h.node.
		Return(testSafe, "VERSION", "1.3.0").
		Return(testSafe, "getOwners", []common.Address{common.HexToAddress(testOwner)}).
		Return(testSafe, "getThreshold", big.NewInt(1)).
		Return(testSafe, "nonce", big.NewInt(3)).
		SetBalance(testSafe, big.NewInt(2500000000000000000))
	return h
}

func TestVersionCmd(t *testing.T) {
	rec := newHarness(t).run("mainnet", "version")
	assert.Equal(t, []string{"Version: " + VERSION}, rec.Messages("Info"))
}

func TestResolveDeployment(t *testing.T) {
	h := newHarness(t)

	rec := h.run("polygon", "deployments", "resolve", "gnosis_safe", "--version", "1.3.0")
	assert.True(t, rec.HasMessage("0x3E5c63644E683549055b9Be8653de26E0B4CD36E"))
	assert.True(t, rec.HasMessage("network specific"))

	rec = h.run("mainnet", "deployments", "resolve", "GnosisSafeProxyFactory", "--version", "1.1.1")
	assert.True(t, rec.HasMessage("0x76E2cFc1F5Fa8F6a5b3fC4c8F4788F0116861F9B"))

	rec = h.run("mainnet", "deployments", "resolve", "gnosis_safe", "--version", "9.0.0")
	assert.NotEmpty(t, rec.Messages("Error"))
	assert.True(t, rec.HasMessage("0xb6029EA3B2c51D09a50B53CA8012FeEB05bDa35A"))

	rec = h.run("mainnet", "deployments", "resolve", "multisnd")
	assert.NotEmpty(t, rec.Messages("Error"))
	assert.True(t, rec.HasMessage("multi_send"))
}

func TestListDeployments(t *testing.T) {
	rec := newHarness(t).run("gnosis", "deployments", "list")
	tables := rec.Messages("Table")
	require.Len(t, tables, 1)
	assert.Contains(t, tables[0], "gnosis_safe_l2")
	assert.Contains(t, tables[0], "1.3.0, 1.2.0, 1.1.1, 1.0.0")
}

func TestSafeInfoCachesSnapshot(t *testing.T) {
	h := newHarness(t).withSafe()

	rec := h.run("mainnet", "safe", "info", testSafe)
	require.Empty(t, rec.Messages("Error"))
	kv := strings.Join(rec.Messages("KeyValue"), "\n")
	assert.Contains(t, kv, "1.3.0")
	assert.Contains(t, kv, "1 of 1")
	assert.Contains(t, kv, "2.5 ETH")
	assert.True(t, rec.HasMessage(common.HexToAddress(testOwner).Hex()))

	h.node.Err = errors.New("connection refused")
	rec = h.run("mainnet", "safe", "info", testSafe)
	assert.True(t, rec.HasMessage("cached snapshot"))
	assert.True(t, rec.HasMessage("1 of 1"))

	// nothing cached for gnosis chain
	rec = h.run("mainnet", "safe", "info", "gno:"+testSafe)
	assert.NotEmpty(t, rec.Messages("Error"))
}

func TestSafeBalances(t *testing.T) {
	h := newHarness(t).withSafe()
	h.node.Return(testDAI, "balanceOf", big.NewInt(0).Mul(big.NewInt(42), big.NewInt(1e18)))

	list := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(list, []byte(`{"tokens":[
		{"address":"`+testDAI+`","symbol":"DAI","name":"Dai","decimals":18},
		{"address":"0x0000000000000000000000000000000000000bad","symbol":"ZERO","decimals":18}
	]}`), 0o644))

	rec := h.run("mainnet", "safe", "balances", testSafe, "--tokens", list)
	tables := rec.Messages("Table")
	require.Len(t, tables, 1)
	assert.Contains(t, tables[0], "DAI")
	assert.Contains(t, tables[0], "42")
	assert.Contains(t, tables[0], "ETH")
	assert.NotContains(t, tables[0], "ZERO")

	rec = h.run("mainnet", "safe", "balances", testSafe, "--tokens", list, "--cached")
	require.Len(t, rec.Messages("Table"), 1)
	assert.Contains(t, rec.Messages("Table")[0], "DAI")
}

func TestSafeBalancesMalformedCache(t *testing.T) {
	h := newHarness(t)
	recorder := &monitoring.Recorder{}
	prev := monitoring.Default()
	monitoring.SetDefault(recorder)
	defer monitoring.SetDefault(prev)

	require.NoError(t, appCacheFor(h).Set("balances:1:"+common.HexToAddress(testSafe).Hex(), `{"not":"a list"}`))

	rec := h.run("mainnet", "safe", "balances", testSafe, "--cached")
	assert.True(t, rec.HasMessage("No balances."))
	require.Len(t, recorder.Events(), 1)
	assert.Equal(t, "malformed_balances", recorder.Events()[0].Name)
}

func TestMetricsFileCountsMalformedBalances(t *testing.T) {
	h := newHarness(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	prev := monitoring.Default()
	monitoring.SetDefault(monitoring.NewLogReporter(logger))
	defer monitoring.SetDefault(prev)

	require.NoError(t, appCacheFor(h).Set("balances:1:"+common.HexToAddress(testSafe).Hex(), `"oops"`))
	metrics := filepath.Join(t.TempDir(), "safeops.prom")

	rec := h.run("mainnet", "safe", "balances", testSafe, "--cached", "--metrics-file", metrics)
	assert.True(t, rec.HasMessage("No balances."))

	out, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(out), `safeops_monitoring_events_total{event="malformed_balances"}`)
}

func TestPagePath(t *testing.T) {
	info, _, err := rootCmd.Find([]string{"safe", "info"})
	require.NoError(t, err)
	assert.Equal(t, "/safe/info", pagePath(info))

	consent, _, err := rootCmd.Find([]string{"analytics", "consent"})
	require.NoError(t, err)
	assert.Equal(t, "/analytics/consent", pagePath(consent))

	assert.Equal(t, "/", pagePath(rootCmd))
}

func TestCreateTx(t *testing.T) {
	h := newHarness(t)

	rec := h.run("mainnet", "safe", "create-tx", "--owner", testOwner, "--threshold", "1", "--salt", "7")
	require.Empty(t, rec.Messages("Error"))
	kv := rec.Messages("KeyValue")
	require.Len(t, kv, 1)
	assert.Contains(t, kv[0], "0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2")
	assert.Contains(t, kv[0], "0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")

	rec = h.run("mainnet", "safe", "create-tx", "--owner", testOwner, "--threshold", "2")
	assert.True(t, rec.HasMessage("threshold"))
	assert.NotEmpty(t, rec.Messages("Error"))

	rec = h.run("mainnet", "safe", "create-tx", "--owner", "nope")
	assert.NotEmpty(t, rec.Messages("Error"))
}

func TestAnalyticsConsent(t *testing.T) {
	h := newHarness(t)

	rec := h.run("mainnet", "analytics", "consent")
	assert.True(t, rec.HasMessage("not granted"))

	h.run("mainnet", "analytics", "consent", "--accept")
	assert.True(t, analytics.HasConsent(appCacheFor(h)))

	rec = h.run("mainnet", "analytics", "consent")
	kv := strings.Join(rec.Messages("KeyValue"), "\n")
	assert.Regexp(t, `Consent\s+granted`, kv)
	// development builds never report
	assert.Regexp(t, `Active\s+no`, kv)

	h.run("mainnet", "analytics", "consent", "--revoke")
	assert.False(t, analytics.HasConsent(appCacheFor(h)))
}
