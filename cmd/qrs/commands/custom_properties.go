package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// NewCustomPropertiesCommand creates the custom-properties command group.
func NewCustomPropertiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "custom-properties",
		Aliases: []string{"custom-property", "cp"},
		Short:   "Manage custom property definitions",
	}

	cmd.AddCommand(newCustomPropertiesListCommand())
	cmd.AddCommand(newCustomPropertiesCreateCommand())
	cmd.AddCommand(newCustomPropertiesDeleteCommand())

	return cmd
}

func newCustomPropertiesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom property definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			defs, err := client.CustomProperties().List(context.Background(), qrs.NewQueryParams().WithOrderBy("name"))
			if err != nil {
				return fmt.Errorf("failed to list custom property definitions: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(defs)
			case OutputFormatYAML:
				return outputYAML(defs)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "ID", "Value Type", "Choices")

				for _, def := range defs {
					_ = table.Append(def.Name, def.ID, def.ValueType, strings.Join(def.ChoiceValues, ", "))
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newCustomPropertiesCreateCommand() *cobra.Command {
	var (
		valueType string
		choices   []string
		types     []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a custom property definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			def, err := client.CustomProperties().Add(context.Background(), &qrs.CustomPropertyDefinition{
				CustomPropertyDefinitionCondensed: qrs.CustomPropertyDefinitionCondensed{
					Name:         args[0],
					ValueType:    valueType,
					ChoiceValues: choices,
				},
				ObjectTypes: types,
			})
			if err != nil {
				return fmt.Errorf("failed to create custom property definition: %w", err)
			}

			fmt.Printf("Custom property %s created (%s)\n", def.Name, def.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&valueType, "value-type", qrs.ValueTypeText, "value type (Text, Integer, Decimal, Date, Timestamp)")
	cmd.Flags().StringSliceVar(&choices, "choice", nil, "allowed value (repeatable)")
	cmd.Flags().StringSliceVar(&types, "object-type", nil, "resource type the property applies to (repeatable)")

	return cmd
}

func newCustomPropertiesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a custom property definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			defs, err := client.CustomProperties().List(ctx, qrs.NewQueryParams().WithFilter(qrs.FilterByName(args[0])))
			if err != nil {
				return fmt.Errorf("failed to resolve custom property definition: %w", err)
			}

			if len(defs) == 0 {
				return &qrs.NotFoundError{Kind: "custompropertydefinition", ID: args[0]}
			}

			if err := client.CustomProperties().Remove(ctx, defs[0].ID); err != nil {
				return fmt.Errorf("failed to delete custom property definition: %w", err)
			}

			fmt.Printf("Custom property %s deleted\n", args[0])

			return nil
		},
	}
}
