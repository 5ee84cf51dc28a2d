package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/senseops-io/qrs-client/pkg/qrs"
	"github.com/senseops-io/qrs-client/pkg/qrsclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		host        string
		certificate string
		domain      string
		username    string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a Qlik Sense site",
		Long: `Verify a connection to the repository service and persist it in the
config file. Certificate login talks to the repository port directly;
domain login goes through the platform proxy with NTLM credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = viper.GetString("host")
			}

			if host == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Repository service host: ")
				host, _ = reader.ReadString('\n')
				host = strings.TrimSpace(host)
			}

			if host == "" {
				return qrs.ErrHostRequired
			}

			config := &qrs.Config{
				Host:          host,
				Certificate:   certificate,
				Domain:        domain,
				Username:      username,
				Password:      password,
				SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
			}

			// Domain login without a password prompts for one, hidden.
			if certificate == "" && username != "" && password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()

				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}

				config.Password = string(bytePassword)
			}

			client, err := qrsclient.New(config)
			if err != nil {
				return err
			}

			about, err := client.About(context.Background())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Printf("Connected to %s (build %s)\n", host, about.BuildVersion)

			// Persist the connection, never the password.
			viper.Set("host", host)
			viper.Set("certificate", certificate)
			viper.Set("domain", domain)
			viper.Set("username", username)

			if err := viper.WriteConfig(); err != nil {
				if err := viper.SafeWriteConfig(); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "repository service host")
	cmd.Flags().StringVar(&certificate, "certificate", "", "path to the client certificate PEM")
	cmd.Flags().StringVar(&domain, "domain", "", "Windows domain")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Windows username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Windows password (prompted if omitted)")

	return cmd
}
