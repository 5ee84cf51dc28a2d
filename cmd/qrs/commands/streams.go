package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// NewStreamsCommand creates the streams command group.
func NewStreamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "streams",
		Aliases: []string{"stream"},
		Short:   "Manage streams",
	}

	cmd.AddCommand(newStreamsListCommand())
	cmd.AddCommand(newStreamsGetCommand())
	cmd.AddCommand(newStreamsCreateCommand())
	cmd.AddCommand(newStreamsDeleteCommand())

	return cmd
}

func newStreamsListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			params := qrs.NewQueryParams().WithOrderBy("name")
			if filter != "" {
				params.WithFilter(filter)
			}

			streams, err := client.Streams().List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list streams: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(streams)
			case OutputFormatYAML:
				return outputYAML(streams)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "ID")

				for _, stream := range streams {
					_ = table.Append(stream.Name, stream.ID)
				}

				_ = table.Render()

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "platform filter expression")

	return cmd
}

func newStreamsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show stream details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			stream, err := svc.GetStreamByName(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get stream: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(stream)
			case OutputFormatYAML:
				return outputYAML(stream)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				_ = table.Append("Name", stream.Name)
				_ = table.Append("ID", stream.ID)
				_ = table.Append("Created", formatTime(stream.CreatedDate))
				_ = table.Append("Modified", formatTime(stream.ModifiedDate))

				if stream.Owner != nil {
					_ = table.Append("Owner", stream.Owner.UserDirectory+"\\"+stream.Owner.UserID)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newStreamsCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			stream, err := client.Streams().Add(context.Background(), &qrs.Stream{
				StreamCondensed: qrs.StreamCondensed{Name: args[0]},
			})
			if err != nil {
				return fmt.Errorf("failed to create stream: %w", err)
			}

			fmt.Printf("Stream %s created (%s)\n", stream.Name, stream.ID)

			return nil
		},
	}
}

func newStreamsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			stream, err := svc.GetStreamByName(ctx, args[0])
			if err != nil {
				return err
			}

			if err := svc.Client().Streams().Remove(ctx, stream.ID); err != nil {
				return fmt.Errorf("failed to delete stream: %w", err)
			}

			fmt.Printf("Stream %s deleted\n", stream.Name)

			return nil
		},
	}
}
