package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/safeops/contracts"
	"github.com/tranvictor/safeops/deployments"
	"github.com/tranvictor/safeops/networks"
)

var DeploymentVersion string

var resolver = contracts.DefaultResolver()

var listDeploymentsCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every bundled singleton contract and its versions",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		network := networks.CurrentNetwork()
		registry := resolver.Registry()
		rows := [][]string{}
		for _, c := range registry.Contracts() {
			latest := "-"
			if d, err := resolver.Deployment(c, "", network); err == nil {
				latest = d.Address(network.GetChainID()).Hex()
			}
			rows = append(rows, []string{
				string(c),
				strings.Join(registry.Versions(c), ", "),
				latest,
			})
		}
		appUI.Section(fmt.Sprintf("Deployments on %s", network.GetName()))
		appUI.Table([]string{"Contract", "Versions", fmt.Sprintf("Address (%s)", deployments.LatestVersion)}, rows)
	},
}

var resolveDeploymentCmd = &cobra.Command{
	Use:   "resolve <contract>",
	Short: "Show the deployment of a contract picked for the current network",
	Long: `Resolves which deployment of a singleton contract safeops uses on the current
network. For gnosis_safe the version is the Safe version: L2 chains get the
L2 singleton from 1.3.0 on and Safes older than 1.0.0 get the 1.0.0 one.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network := networks.CurrentNetwork()
		registry := resolver.Registry()

		contract, err := registry.ParseContract(args[0])
		if err != nil {
			appUI.Error("%s", err)
			if suggestions := registry.Suggest(args[0]); len(suggestions) > 0 {
				appUI.Info("Did you mean: %v?", suggestions)
			}
			return
		}

		d, err := resolver.Deployment(contract, DeploymentVersion, network)
		if err != nil {
			appUI.Error("%s", err)
			if contract == deployments.GnosisSafe {
				appUI.Warn("Falling back to the %s master copy: %s", contracts.OldestSupportedVersion, resolver.SafeSingletonAddress(DeploymentVersion, network).Hex())
			}
			return
		}

		_, networkSpecific := d.NetworkAddress(network.GetChainID())
		source := "version default"
		if networkSpecific {
			source = "network specific"
		}
		released := "yes"
		if !d.Released {
			released = "no"
		}
		appUI.KeyValue([][2]string{
			{"Contract", d.ContractName},
			{"Version", d.Version},
			{"Network", fmt.Sprintf("%s (%d)", network.GetName(), network.GetChainID())},
			{"Address", d.Address(network.GetChainID()).Hex()},
			{"Source", source},
			{"Released", released},
		})
		appTracker.TrackEvent("deployment_resolved", "deployments", "resolve", string(contract))
	},
}

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "Look up Safe singleton contract deployments",
	Long:  ``,
}

func init() {
	resolveDeploymentCmd.Flags().StringVarP(&DeploymentVersion, "version", "v", "", "Version or semver range, latest when empty")

	deploymentsCmd.AddCommand(listDeploymentsCmd)
	deploymentsCmd.AddCommand(resolveDeploymentCmd)
	rootCmd.AddCommand(deploymentsCmd)
}
