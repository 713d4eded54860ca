package main

import (
	"os"

	"github.com/spf13/cobra"

	"ticketbridge/internal/interfaces/cli/run"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ticketbridge",
		Short: "Ticketbridge - a support ticket bridge",
		Long:  `Ticketbridge connects a community platform's ticket channels with a notification platform: panels open tickets, staff follow digests and transcripts from their chats.`,
	}

	rootCmd.AddCommand(
		run.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
