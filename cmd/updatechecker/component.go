package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/updatechecker/model"
)

const (
	slugFlag      = "slug"
	installedFlag = "installed"
	fileFlag      = "file"
)

func init() {
	componentCmd.PersistentFlags().String(serverFlag, "http://localhost:8087", "The update checker server to communicate with")

	for _, cmd := range []*cobra.Command{
		getStateCmd,
		resetStateCmd,
		getUpdateCmd,
		checkCmd,
		getTranslationsCmd,
		clearTranslationsCmd,
		injectCmd,
	} {
		cmd.Flags().String(slugFlag, "", "Slug of the component to operate on")
		cmd.MarkFlagRequired(slugFlag)
		componentCmd.AddCommand(cmd)
	}
	getUpdateCmd.Flags().String(installedFlag, "", "Installed version, read from the component header when empty")
	checkCmd.Flags().String(installedFlag, "", "Installed version, read from the component header when empty")
	injectCmd.Flags().String(installedFlag, "", "Installed version, read from the component header when empty")
	injectCmd.Flags().String(fileFlag, "", "JSON file holding the host update list, stdin when empty")

	componentCmd.AddCommand(listComponentsCmd)
}

var componentCmd = &cobra.Command{
	Use:   "component",
	Short: "Inspect and control the update state of registered components",
}

func clientAndSlug(command *cobra.Command) (*model.Client, string) {
	server, _ := command.Flags().GetString(serverFlag)
	slug, _ := command.Flags().GetString(slugFlag)
	return model.NewClient(server), slug
}

var listComponentsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered components",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		server, _ := command.Flags().GetString(serverFlag)

		components, err := model.NewClient(server).GetComponents()
		if err != nil {
			return err
		}

		return printJSON(components)
	},
}

var getStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the cached update state of a component",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)

		state, err := client.GetUpdateState(slug)
		if err != nil {
			return err
		}
		if state == nil {
			fmt.Println("Component was never checked")
			return nil
		}

		return printJSON(state)
	},
}

var resetStateCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the cached update state of a component",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)

		return client.ResetUpdateState(slug)
	},
}

var getUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Show the cached update of a component if it is newer than the installed version",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)
		installed, _ := command.Flags().GetString(installedFlag)

		update, err := client.GetUpdate(slug, installed)
		if err != nil {
			return err
		}
		if update == nil {
			fmt.Println("No update available")
			return nil
		}

		return printJSON(update)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the metadata URL of a component for a newer version now",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)
		installed, _ := command.Flags().GetString(installedFlag)

		update, err := client.CheckForUpdates(slug, installed)
		if err != nil {
			return err
		}
		if update == nil {
			fmt.Println("No update available")
			return nil
		}

		return printJSON(update)
	},
}

var getTranslationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Show the cached translation updates of a component",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)

		translations, err := client.GetTranslationUpdates(slug)
		if err != nil {
			return err
		}

		return printJSON(translations)
	},
}

var clearTranslationsCmd = &cobra.Command{
	Use:   "clear-translations",
	Short: "Clear the cached translation updates of a component",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)

		return client.ClearTranslationUpdates(slug)
	},
}

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Merge the update of a component into a host update list",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true
		client, slug := clientAndSlug(command)
		installed, _ := command.Flags().GetString(installedFlag)
		file, _ := command.Flags().GetString(fileFlag)

		input := os.Stdin
		if file != "" {
			f, err := os.Open(file)
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", file)
			}
			defer f.Close()
			input = f
		}

		list, err := model.NewHostUpdateListFromReader(input)
		if err != nil {
			return err
		}
		if list == nil {
			list = &model.HostUpdateList{}
		}

		merged, err := client.InjectUpdates(slug, installed, list)
		if err != nil {
			return err
		}

		return printJSON(merged)
	},
}
