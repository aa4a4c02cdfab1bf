package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/util/reader"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

// readNetworkConfig accepts either an inline json object or a path to a
// json file.
func readNetworkConfig(value string) (networks.Network, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("--config is required")
	}
	if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
		return networks.NewNetworkFromJSON([]byte(value))
	}
	content, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
	}
	return networks.NewNetworkFromJSON(content)
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config takes a network config json file path OR a json string in the following format:
	{
		"name": "network_name",
		"short_name": "eip3770_prefix",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "SAFEOPS_NODE_NETWORK_NAME",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"l2": false
	}`,
	Run: func(cmd *cobra.Command, args []string) {
		newNetwork, err := readNetworkConfig(NetworkConfig)
		if err != nil {
			appUI.Error("Invalid network config: %s", err)
			return
		}

		names := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
		for _, name := range names {
			if _, err := networks.GetNetwork(name); err == nil {
				if !NetworkForce {
					appUI.Error("Network with name %s already exists. Abort. If you want to update the network, use flag --force.", name)
					return
				}
				appUI.Warn("Network with name %s already exists. It will be replaced.", name)
			}
		}

		if err := networks.AddNetwork(newNetwork); err != nil {
			appUI.Error("Failed to add the new network: %s", err)
			return
		}
		appUI.Success("Network %s with chain ID %d added and saved to %s.", newNetwork.GetName(), newNetwork.GetChainID(), networks.CustomNetworksDir)
		appTracker.TrackEvent("network_added", "network", "add", newNetwork.GetName())
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		rows := [][]string{}
		for _, n := range networks.GetSupportedNetworks() {
			nodes := reader.GetNodes(n)
			names := make([]string, 0, len(nodes))
			for name := range nodes {
				names = append(names, name)
			}
			sort.Strings(names)

			l2 := ""
			if n.IsL2() {
				l2 = "yes"
			}
			rows = append(rows, []string{
				n.GetName(),
				n.GetShortName(),
				fmt.Sprintf("%d", n.GetChainID()),
				l2,
				n.GetNodeVariableName(),
				strings.Join(names, ", "),
			})
		}
		appUI.Table([]string{"Name", "Short name", "Chain ID", "L2", "Node env var", "Nodes"}, rows)
		appUI.Info("Add more networks with: safeops network add --config <json>")
		appUI.Info("Delete a custom network by removing its json file in %s.", networks.CustomNetworksDir)
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that safeops supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.PersistentFlags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.PersistentFlags().BoolVarP(&NetworkForce, "force", "f", false, "Replace the network if it already exists")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
