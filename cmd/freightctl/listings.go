package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	for _, kind := range []string{"offers", "requests"} {
		kind := kind
		group := &cobra.Command{Use: kind, Short: "Shipment " + kind}

		var limit int
		listCmd := &cobra.Command{
			Use:   "list",
			Short: "List active " + kind + ", newest first",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runList(newAPIClient(apiFlag, tokenFlag), kind, limit, os.Stdout)
			},
		}
		listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum rows (server default 50, max 200)")
		group.AddCommand(listCmd)

		group.AddCommand(&cobra.Command{
			Use:   "get ID",
			Short: "Get one listing by ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runGet(newAPIClient(apiFlag, tokenFlag), "/api/"+kind+"/"+args[0], os.Stdout)
			},
		})
		rootCmd.AddCommand(group)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one message to the freight agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(newAPIClient(apiFlag, tokenFlag), args[0], os.Stdout)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "me",
		Short: "Show the capabilities of the token's user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newAPIClient(apiFlag, tokenFlag), "/api/me/capabilities", os.Stdout)
		},
	})
}
