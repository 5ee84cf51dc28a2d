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

// NewTagsCommand creates the tags command group.
func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
	}

	cmd.AddCommand(newTagsListCommand())
	cmd.AddCommand(newTagsCreateCommand())
	cmd.AddCommand(newTagsDeleteCommand())

	return cmd
}

func newTagsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			tags, err := client.Tags().List(context.Background(), qrs.NewQueryParams().WithOrderBy("name"))
			if err != nil {
				return fmt.Errorf("failed to list tags: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(tags)
			case OutputFormatYAML:
				return outputYAML(tags)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "ID")

				for _, tag := range tags {
					_ = table.Append(tag.Name, tag.ID)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newTagsCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			tag, err := client.Tags().Add(context.Background(), &qrs.Tag{
				TagCondensed: qrs.TagCondensed{Name: args[0]},
			})
			if err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}

			fmt.Printf("Tag %s created (%s)\n", tag.Name, tag.ID)

			return nil
		},
	}
}

func newTagsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			tags, err := client.Tags().List(ctx, qrs.NewQueryParams().WithFilter(qrs.FilterByName(args[0])))
			if err != nil {
				return fmt.Errorf("failed to resolve tag: %w", err)
			}

			if len(tags) == 0 {
				return &qrs.NotFoundError{Kind: "tag", ID: args[0]}
			}

			if err := client.Tags().Remove(ctx, tags[0].ID); err != nil {
				return fmt.Errorf("failed to delete tag: %w", err)
			}

			fmt.Printf("Tag %s deleted\n", args[0])

			return nil
		},
	}
}
