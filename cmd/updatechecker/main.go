package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	configFlag = "config"
	debugFlag  = "debug"
	serverFlag = "server"
)

var rootCmd = &cobra.Command{
	Use:   "updatechecker",
	Long:  "updatechecker periodically checks remote metadata for newer versions of installed plugins and themes, caches the results and exposes them to the install pipeline.",
	Short: "Update checker for externally hosted plugins and themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	},
	// SilenceErrors allows us to explicitly log the error returned from rootCmd below.
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String(configFlag, "", "Path of a YAML configuration file")
	rootCmd.PersistentFlags().Bool(debugFlag, false, "Whether to output debug logs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool(debugFlag)
		if debug {
			logger.SetLevel(log.DebugLevel)
		}
	}

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(componentCmd)
	rootCmd.AddCommand(normalizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func printJSON(data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
