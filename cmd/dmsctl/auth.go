package main

import (
	"fmt"

	"github.com/dms-app/dms-backend/client"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	registerEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the credential pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		session := client.NewSession(c)
		if err := session.SignIn(cmd.Context(), loginUsername, loginPassword); err != nil {
			return err
		}
		user := session.User()
		fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		session := client.NewSession(c)
		if err := session.SignUp(cmd.Context(), registerEmail, loginPassword, loginUsername); err != nil {
			return err
		}
		user := session.User()
		fmt.Printf("Registered and signed in as %s\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credential pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		client.NewSession(c).Logout()
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		session := client.NewSession(c)
		if err := session.Restore(cmd.Context()); err != nil {
			return err
		}
		user := session.User()
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		if jsonOutput {
			return printJSON(user)
		}
		fmt.Printf("%s <%s> role=%s admin=%v\n", user.Username, user.Email, user.Role, session.IsAdmin())
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show document and pending-request counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}
		fmt.Printf("%s (%s): %d documents, %d pending requests\n",
			s.Username, s.Role, s.TotalDocuments, s.PendingRequests)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, dashboardCmd)
}
