package main

import (
	"fmt"

	"github.com/dms-app/dms-backend/client"
	"github.com/spf13/cobra"
)

var permsCmd = &cobra.Command{
	Use:   "perms",
	Short: "Review permission requests (admin)",
}

func printRequests(reqs []client.PermissionRequest) error {
	if jsonOutput {
		return printJSON(reqs)
	}
	for _, r := range reqs {
		line := fmt.Sprintf("  %s  %-7s  %-16s  %q by %s",
			r.ID, r.Action, client.StatusLabel[r.Status], r.Document, r.Requester)
		if r.ApprovedBy != "" && r.ApprovedAt != nil {
			line += fmt.Sprintf("  (%s by %s at %s)",
				client.StatusLabel[r.Status], r.ApprovedBy, r.ApprovedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println(line)
	}
	return nil
}

var permsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List requests awaiting a decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := client.NewPermissions(newClient()).Pending(cmd.Context())
		if err != nil {
			return err
		}
		return printRequests(reqs)
	},
}

var permsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List resolved requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := client.NewPermissions(newClient()).History(cmd.Context())
		if err != nil {
			return err
		}
		return printRequests(reqs)
	},
}

var permsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.NewPermissions(newClient()).Approve(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Approved")
		return nil
	},
}

var permsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.NewPermissions(newClient()).Reject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Rejected")
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := newClient().Notifications(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ns)
		}
		for _, n := range ns {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %s  %s: %s\n", marker, n.ID, n.Title, n.Message)
		}
		return nil
	},
}

func init() {
	permsCmd.AddCommand(permsPendingCmd, permsHistoryCmd, permsApproveCmd, permsRejectCmd)
	rootCmd.AddCommand(permsCmd, notificationsCmd)
}
