// Package main implements the taskctl CLI for working with the taskflow API server.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskflow/pkg/client"
)

var (
	serverURL   string
	sessionPath string
	version     = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "taskctl",
	Short:   "CLI for the taskflow API server",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "taskflow server URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session-file", client.DefaultSessionPath(), "path to the session file")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func apiClient() *client.Client {
	return client.New(serverURL, client.NewSessionStore(sessionPath))
}
