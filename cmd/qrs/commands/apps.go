package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// NewAppsCommand creates the apps command group.
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage apps",
		Long:    "List, inspect, reload, publish, copy, upload, and download apps",
	}

	cmd.AddCommand(newAppsListCommand())
	cmd.AddCommand(newAppsGetCommand())
	cmd.AddCommand(newAppsReloadCommand())
	cmd.AddCommand(newAppsPublishCommand())
	cmd.AddCommand(newAppsCopyCommand())
	cmd.AddCommand(newAppsExportCommand())
	cmd.AddCommand(newAppsUploadCommand())
	cmd.AddCommand(newAppsDownloadCommand())
	cmd.AddCommand(newAppsDeleteCommand())

	return cmd
}

func newAppsListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps",
		Long:  "List all apps visible to the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			params := qrs.NewQueryParams()
			if filter != "" {
				params.WithFilter(filter)
			}

			apps, err := client.Apps().List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list apps: %w", err)
			}

			return outputApps(apps)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "platform filter expression, e.g. \"name eq 'Sales'\"")

	return cmd
}

func outputApps(apps []qrs.AppCondensed) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return outputJSON(apps)
	case OutputFormatYAML:
		return outputYAML(apps)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Name", "ID", "Published", "Stream")

		for _, app := range apps {
			streamName := NotAvailable
			if app.Stream != nil {
				streamName = app.Stream.Name
			}

			_ = table.Append(app.Name, app.ID, formatBool(app.Published), streamName)
		}

		_ = table.Render()

		return nil
	}
}

func newAppsGetCommand() *cobra.Command {
	var streamName string

	cmd := &cobra.Command{
		Use:   "get NAME_OR_ID",
		Short: "Show app details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			app, err := svc.Client().Apps().Get(ctx, args[0])
			if qrs.IsNotFound(err) || qrs.IsValidation(err) {
				// Not a GUID; fall back to name resolution.
				app, err = svc.GetAppByName(ctx, args[0], streamName)
			}

			if err != nil {
				return fmt.Errorf("failed to get app: %w", err)
			}

			return outputApp(app)
		},
	}

	cmd.Flags().StringVar(&streamName, "stream", "", "scope name resolution to a stream")

	return cmd
}

func outputApp(app *qrs.App) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return outputJSON(app)
	case OutputFormatYAML:
		return outputYAML(app)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("Name", app.Name)
		_ = table.Append("ID", app.ID)
		_ = table.Append("Description", app.Description)
		_ = table.Append("Published", formatBool(app.Published))
		_ = table.Append("Last reload", formatTime(app.LastReloadTime))
		_ = table.Append("Modified", formatTime(app.ModifiedDate))

		if app.Owner != nil {
			_ = table.Append("Owner", app.Owner.UserDirectory+"\\"+app.Owner.UserID)
		}

		if app.Stream != nil {
			_ = table.Append("Stream", app.Stream.Name)
		}

		_ = table.Render()

		return nil
	}
}

func newAppsReloadCommand() *cobra.Command {
	var streamName string

	cmd := &cobra.Command{
		Use:   "reload NAME",
		Short: "Reload an app's data",
		Long:  "Trigger a data reload and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			if err := svc.ReloadAppByName(context.Background(), args[0], streamName); err != nil {
				return fmt.Errorf("failed to reload app: %w", err)
			}

			fmt.Printf("App %s reloaded\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&streamName, "stream", "", "scope name resolution to a stream")

	return cmd
}

func newAppsPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish APP_NAME STREAM_NAME",
		Short: "Publish an app into a stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			app, err := svc.PublishAppByName(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to publish app: %w", err)
			}

			fmt.Printf("App %s published to %s\n", app.Name, args[1])

			return nil
		},
	}
}

func newAppsCopyCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "copy APP_NAME",
		Short: "Copy an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			app, err := svc.GetAppByName(ctx, args[0], "")
			if err != nil {
				return err
			}

			copied, err := svc.Client().Apps().Copy(ctx, app.ID, name)
			if err != nil {
				return fmt.Errorf("failed to copy app: %w", err)
			}

			fmt.Printf("Copied %s to %s (%s)\n", app.Name, copied.Name, copied.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the copy (defaults to the source name)")

	return cmd
}

func newAppsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export APP_NAME",
		Short: "Export an app",
		Long:  "Request an app export and print the download path issued by the platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			app, err := svc.GetAppByName(ctx, args[0], "")
			if err != nil {
				return err
			}

			export, err := svc.Client().Apps().Export(ctx, app.ID)
			if err != nil {
				return fmt.Errorf("failed to export app: %w", err)
			}

			fmt.Println(export.DownloadPath)

			return nil
		},
	}
}

func newAppsUploadCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an app file",
		Long:  "Create an app on the platform from a local app file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			appName := name
			if appName == "" {
				base := filepath.Base(args[0])
				appName = strings.TrimSuffix(base, filepath.Ext(base))
			}

			app, err := svc.Client().Apps().Upload(context.Background(), appName, file)
			if err != nil {
				return fmt.Errorf("failed to upload app: %w", err)
			}

			fmt.Printf("Uploaded %s (%s)\n", app.Name, app.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the app (defaults to the file name)")

	return cmd
}

func newAppsDownloadCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download APP_NAME",
		Short: "Download an app",
		Long:  "Export an app and save the payload to a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			app, err := svc.GetAppByName(ctx, args[0], "")
			if err != nil {
				return err
			}

			export, err := svc.Client().Apps().Export(ctx, app.ID)
			if err != nil {
				return fmt.Errorf("failed to export app: %w", err)
			}

			reader, err := svc.Client().Apps().Download(ctx, export.DownloadPath)
			if err != nil {
				return fmt.Errorf("failed to download app: %w", err)
			}
			defer func() { _ = reader.Close() }()

			if outPath == "" {
				outPath = app.Name + ".qvf"
			}

			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer func() { _ = file.Close() }()

			if _, err := io.Copy(file, reader); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Printf("Saved %s to %s\n", app.Name, outPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "destination file (defaults to <app name>.qvf)")

	return cmd
}

func newAppsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete APP_NAME",
		Short: "Delete an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := createService()
			if err != nil {
				return err
			}

			ctx := context.Background()

			app, err := svc.GetAppByName(ctx, args[0], "")
			if err != nil {
				return err
			}

			if err := svc.Client().Apps().Remove(ctx, app.ID); err != nil {
				return fmt.Errorf("failed to delete app: %w", err)
			}

			fmt.Printf("App %s deleted\n", app.Name)

			return nil
		},
	}
}
