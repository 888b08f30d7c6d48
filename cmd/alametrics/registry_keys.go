package main

import (
	"github.com/spf13/cobra"
)

// KeysResponse lists discovered registry keys.
type KeysResponse struct {
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

var registryKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List GBIF registry keys of ALA data resources",
	Args:  cobra.NoArgs,
	RunE:  runRegistryKeys,
}

func init() {
	registryCmd.AddCommand(registryKeysCmd)
}

func runRegistryKeys(cmd *cobra.Command, args []string) error {
	p := mustPipeline()
	ctx, cancel := signalContext()
	defer cancel()

	keys, err := p.Collections().RegistryKeys(ctx, p.Config().Workers)
	if err != nil {
		exitWithError(ExitError, "discovering registry keys: %v", err)
	}

	if humanOutput {
		for _, k := range keys {
			outputHuman("%s\n", k)
		}
		return nil
	}
	return outputJSON(KeysResponse{Count: len(keys), Keys: keys})
}
