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

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCountCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			params := qrs.NewQueryParams().WithOrderBy("userId")
			if filter != "" {
				params.WithFilter(filter)
			}

			users, err := client.Users().List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(users)
			case OutputFormatYAML:
				return outputYAML(users)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("User", "Directory", "Name", "ID")

				for _, user := range users {
					_ = table.Append(user.UserID, user.UserDirectory, user.Name, user.ID)
				}

				_ = table.Render()

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "platform filter expression, e.g. \"userDirectory eq 'QLIK'\"")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(user)
			case OutputFormatYAML:
				return outputYAML(user)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				_ = table.Append("User", user.UserID)
				_ = table.Append("Directory", user.UserDirectory)
				_ = table.Append("Name", user.Name)
				_ = table.Append("ID", user.ID)
				_ = table.Append("Inactive", formatBool(user.Inactive))
				_ = table.Append("Blacklisted", formatBool(user.Blacklisted))
				_ = table.Append("Removed externally", formatBool(user.RemovedExternally))

				_ = table.Render()

				return nil
			}
		},
	}
}

func newUsersCountCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count users",
		Long:  "Count users matching a filter without transferring them",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			count, err := client.Users().Count(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to count users: %w", err)
			}

			fmt.Println(count)

			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "platform filter expression")

	return cmd
}
