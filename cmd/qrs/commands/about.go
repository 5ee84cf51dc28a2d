package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewAboutCommand creates the about command.
func NewAboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show repository service build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			about, err := client.About(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch build information: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(about)
			case OutputFormatYAML:
				return outputYAML(about)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				_ = table.Append("Build version", about.BuildVersion)
				_ = table.Append("Build date", about.BuildDate)
				_ = table.Append("Database provider", about.DatabaseProvider)
				_ = table.Append("Shared persistence", formatBool(about.SharedPersistence))

				_ = table.Render()

				return nil
			}
		},
	}
}
