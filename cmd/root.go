package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "obs",
		Short:         "Observation displayer (obs): place, list and expire in-world observations",
		Long:          "obs keeps the observations actors leave in a world: it stores them, shows them as floating markers, walks actors through template prompts, and sweeps away the ones that expire.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	deps := &lazyApp{logOutput: rootCmd.ErrOrStderr}

	rootCmd.AddCommand(
		newVersionCmd(),
		newListCmd(deps),
		newAddCmd(deps),
		newRemoveCmd(deps),
		newSweepCmd(deps),
		newTemplatesCmd(),
		newServeCmd(deps),
	)

	return rootCmd
}
