package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mattermost/updatechecker/internal/normalizer"
	"github.com/mattermost/updatechecker/model"
)

const (
	sourceFlag       = "source"
	remoteSourceFlag = "remote-source"
	directoryFlag    = "directory"
	typeFlag         = "type"
)

func init() {
	normalizeCmd.Flags().String(sourceFlag, "", "Directory selected for installation after extracting the update")
	normalizeCmd.Flags().String(remoteSourceFlag, "", "Directory the update archive was extracted into")
	normalizeCmd.Flags().String(directoryFlag, "", "Directory name of the installed component")
	normalizeCmd.Flags().String(typeFlag, string(model.PluginType), "Type of the component, plugin or theme")
	normalizeCmd.MarkFlagRequired(sourceFlag)
	normalizeCmd.MarkFlagRequired(remoteSourceFlag)
	normalizeCmd.MarkFlagRequired(directoryFlag)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rename an extracted update so that it matches the installed directory name",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		source, _ := command.Flags().GetString(sourceFlag)
		remoteSource, _ := command.Flags().GetString(remoteSourceFlag)
		directory, _ := command.Flags().GetString(directoryFlag)
		componentType, _ := command.Flags().GetString(typeFlag)

		identity, err := model.NewIdentity(model.ComponentType(componentType), directory, "")
		if err != nil {
			return errors.Wrap(err, "invalid component")
		}

		n := normalizer.New(afero.NewOsFs(), logger)
		normalized, err := n.NormalizeFor(normalizer.UpgradeTarget(identity), identity, source, remoteSource)
		if err != nil {
			return err
		}

		fmt.Println(normalized)
		return nil
	},
}
