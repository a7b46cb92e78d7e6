package main

import (
	"github.com/spf13/cobra"

	"github.com/mattermost/updatechecker/internal/config"
	"github.com/mattermost/updatechecker/internal/store"
)

func init() {
	schemaCmd.AddCommand(schemaMigrateCmd)
	schemaCmd.AddCommand(schemaStatesCmd)
	schemaCmd.PersistentFlags().String(config.KeyDatabase, "sqlite://updatechecker.db", "The database backing the update checker server.")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manipulate the schema used by the update checker server.",
}

func sqlStore(command *cobra.Command) (*store.SQLStore, error) {
	cfg, err := loadConfig(command, config.KeyDatabase)
	if err != nil {
		return nil, err
	}

	sqlStore, err := store.New(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return sqlStore, nil
}

var schemaMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the schema to the latest supported version.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		sqlStore, err := sqlStore(command)
		if err != nil {
			return err
		}
		defer sqlStore.Close()

		return sqlStore.Migrate()
	},
}

var schemaStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the keys of all persisted update states.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		sqlStore, err := sqlStore(command)
		if err != nil {
			return err
		}
		defer sqlStore.Close()

		keys, err := sqlStore.GetUpdateStateKeys()
		if err != nil {
			return err
		}

		return printJSON(keys)
	},
}
