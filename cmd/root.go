package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "podwatch",
		Short:         "RunPod monitor and control bot for Telegram",
		Long:          "podwatch watches your RunPod pods, alerts a Telegram chat on status changes, and lets authorized users list, create, stop, and terminate pods from chat.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
	)

	return rootCmd
}
