// Package commands implements the qrs CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/senseops-io/qrs-client/pkg/qrs"
	"github.com/senseops-io/qrs-client/pkg/qrsclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// JSON formatting.
	jsonIndent = "  "

	Yes = "yes"
	No  = "no"
)

// createClient builds a repository service client from the resolved
// configuration (flags, environment, config file).
func createClient() (qrs.Client, error) {
	password := viper.GetString("password")
	if password == "" {
		password = os.Getenv("QRS_PASSWORD")
	}

	return qrsclient.New(&qrs.Config{
		Host:          viper.GetString("host"),
		Certificate:   viper.GetString("certificate"),
		UserDirectory: viper.GetString("user-directory"),
		UserID:        viper.GetString("user-id"),
		Domain:        viper.GetString("domain"),
		Username:      viper.GetString("username"),
		Password:      password,
		SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
	})
}

// createService wraps createClient with the name-oriented conveniences.
func createService() (*qrsclient.Service, error) {
	client, err := createClient()
	if err != nil {
		return nil, err
	}

	return qrsclient.NewService(client), nil
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", jsonIndent)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

func outputYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	fmt.Print(string(data))

	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}

	return t.Format(time.RFC3339)
}

func formatBool(b bool) string {
	if b {
		return Yes
	}

	return No
}
