package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BuzzLyutic/taskflow/pkg/client"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE:  runWhoami,
}

var (
	flagName  string
	flagEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the supplied profile fields",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagName, "name", "", "new display name")
	profileCmd.Flags().StringVar(&flagEmail, "email", "", "new email address")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, err := prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	c := apiClient()
	session, err := c.Register(cmd.Context(), name, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Registered as %s (%s)\n", session.User.Name, session.User.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, err := prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	c := apiClient()
	session, err := c.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s, session valid until %s\n",
		session.User.Email, session.ExpiresAt.Local().Format("15:04:05"))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := apiClient().Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c := apiClient()
	if !c.Session().IsAuthenticated() {
		fmt.Println("Not logged in")
		return nil
	}

	user, err := c.Me(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	var update client.ProfileUpdate
	if cmd.Flags().Changed("name") {
		update.Name = &flagName
	}
	if cmd.Flags().Changed("email") {
		update.Email = &flagEmail
	}
	if update.Name == nil && update.Email == nil {
		return fmt.Errorf("nothing to update, pass --name or --email")
	}

	user, err := apiClient().UpdateMe(cmd.Context(), update)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
