// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mattermost/updatechecker/internal/api"
	"github.com/mattermost/updatechecker/internal/checker"
	"github.com/mattermost/updatechecker/internal/common"
	"github.com/mattermost/updatechecker/internal/config"
	"github.com/mattermost/updatechecker/internal/header"
	"github.com/mattermost/updatechecker/internal/locale"
	"github.com/mattermost/updatechecker/internal/normalizer"
	"github.com/mattermost/updatechecker/internal/store"
	"github.com/mattermost/updatechecker/internal/supervisor"
	"github.com/mattermost/updatechecker/internal/transport"
	"github.com/mattermost/updatechecker/model"
)

var serverConfigKeys = []string{
	config.KeyListen,
	config.KeyDatabase,
	config.KeyStateBackend,
	config.KeyBucket,
	config.KeyPrefix,
	config.KeyInterval,
	config.KeyRequestTimeout,
	config.KeyMaxRetryTime,
	config.KeyRestrictHosts,
	config.KeyUserAgent,
	config.KeyPluginsDir,
	config.KeyThemesDir,
	config.KeyLanguagesDir,
	config.KeyWorkDir,
}

func init() {
	serverCmd.PersistentFlags().String(config.KeyListen, "localhost:8087", "Local interface and port to listen on")
	serverCmd.PersistentFlags().String(config.KeyDatabase, "sqlite://updatechecker.db", "Location of a Postgres or sqlite database for the update state")
	serverCmd.PersistentFlags().String(config.KeyStateBackend, config.BackendSQL, "Where update states are kept, either sql or s3")
	serverCmd.PersistentFlags().String(config.KeyBucket, "", "S3 bucket holding update states when the s3 backend is used")
	serverCmd.PersistentFlags().String(config.KeyPrefix, "update-state", "Key prefix of update states in the S3 bucket")
	serverCmd.PersistentFlags().Duration(config.KeyInterval, supervisor.DefaultInterval, "How often components are inspected for stale update states")
	serverCmd.PersistentFlags().Duration(config.KeyRequestTimeout, transport.DefaultTimeout, "Timeout of a single metadata request")
	serverCmd.PersistentFlags().Duration(config.KeyMaxRetryTime, transport.DefaultMaxElapsedTime, "How long a failing metadata request is retried, negative disables retries")
	serverCmd.PersistentFlags().Bool(config.KeyRestrictHosts, false, "Only allow metadata requests to the hosts of registered metadata URLs")
	serverCmd.PersistentFlags().String(config.KeyUserAgent, "updatechecker", "User agent of metadata requests")
	serverCmd.PersistentFlags().String(config.KeyPluginsDir, "wp-content/plugins", "Directory containing the installed plugins")
	serverCmd.PersistentFlags().String(config.KeyThemesDir, "wp-content/themes", "Directory containing the installed themes")
	serverCmd.PersistentFlags().String(config.KeyLanguagesDir, "wp-content/languages", "Directory containing the installed translations")
	serverCmd.PersistentFlags().String(config.KeyWorkDir, "/tmp/updatechecker/workdir", "The directory updates are extracted into. Paths given to the normalize endpoint are resolved inside it.")
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the update checker server.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		cfg, err := loadConfig(command, serverConfigKeys...)
		if err != nil {
			return err
		}
		err = cfg.ValidateServer()
		if err != nil {
			return err
		}
		_, err = os.Stat(cfg.WorkDir)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Wrapf(err, "the provided path for the working directory \"%s\" does not exist. Create it and try again?", cfg.WorkDir)
			}
			return errors.Wrapf(err, "failed to check status of working directory \"%s\"", cfg.WorkDir)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stateStore, closeStore, err := buildStateStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		fetcherOptions := transport.Options{
			Timeout:        cfg.RequestTimeout,
			MaxElapsedTime: cfg.MaxRetryTime,
			UserAgent:      cfg.UserAgent,
		}
		if cfg.RestrictHosts {
			fetcherOptions.AllowedHosts = cfg.MetadataHosts()
		}
		fetcher := transport.NewHTTPFetcher(&http.Client{}, fetcherOptions, logger)

		fs := afero.NewOsFs()
		locales := locale.NewSource(fs, cfg.LanguagesDir, cfg.Locales, logger)
		versions := header.NewReader(fs, cfg.PluginsDir, cfg.ThemesDir)

		updateChecker := checker.NewChecker(stateStore, fetcher, locales, nil, logger)
		components, err := buildComponents(cfg, updateChecker)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"build-hash":     model.BuildHash,
			"state-backend":  cfg.StateBackend,
			"components":     len(components.List()),
			"interval":       cfg.Interval.String(),
			"restrict-hosts": cfg.RestrictHosts,
			"workdir":        cfg.WorkDir,
		}).Info("Starting update checker server")

		checkSupervisor := supervisor.NewCheckSupervisor(updateChecker, components, versions, cfg.Interval, logger)
		checkSupervisor.Start(ctx)

		router := mux.NewRouter()
		api.Register(router,
			&api.Context{
				Checker:    updateChecker,
				Components: components,
				Normalizer: normalizer.New(afero.NewBasePathFs(fs, cfg.WorkDir), logger),
				Versions:   versions,
				Logger:     logger,
			})

		srv := &http.Server{
			Addr:           cfg.Listen,
			Handler:        router,
			ReadTimeout:    180 * time.Second,
			WriteTimeout:   180 * time.Second,
			IdleTimeout:    time.Second * 180,
			MaxHeaderBytes: 1 << 20,
		}

		go func() {
			logger.WithField("addr", srv.Addr).Info("Listening")
			err := srv.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("Failed to listen and serve")
			}
		}()

		c := make(chan os.Signal, 1)
		// We'll accept graceful shutdowns when quit via:
		//  - SIGINT (Ctrl+C)
		//  - SIGTERM (Ctrl+/) (Kubernetes pod rolling termination)
		// SIGKILL and SIGQUIT will not be caught.
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		logger.WithField("shutdown-signal", sig.String()).Info("Shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// loadConfig reads the configuration file named by --config and applies
// the given flags on top when they were set explicitly.
func loadConfig(command *cobra.Command, keys ...string) (*config.Config, error) {
	path, _ := command.Flags().GetString(configFlag)

	overrides := make(map[string]interface{})
	for _, key := range keys {
		flag := command.Flags().Lookup(key)
		if flag == nil || !flag.Changed {
			continue
		}
		overrides[key] = flag.Value.String()
	}

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

// buildStateStore opens the configured update state backend. The returned
// function releases it.
func buildStateStore(ctx context.Context, cfg *config.Config) (checker.StateStore, func(), error) {
	switch cfg.StateBackend {
	case config.BackendS3:
		client, err := common.NewS3Client(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store.NewS3Store(client, cfg.Bucket, cfg.Prefix, logger), func() {}, nil
	default:
		sqlStore, err := store.New(cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		err = sqlStore.Migrate()
		if err != nil {
			sqlStore.Close()
			return nil, nil, errors.Wrap(err, "failed to migrate the database")
		}
		return sqlStore, func() {
			if err := sqlStore.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close the database")
			}
		}, nil
	}
}

// buildComponents registers the configured components.
func buildComponents(cfg *config.Config, updateChecker *checker.Checker) (*checker.Components, error) {
	components := checker.NewComponents()
	for i := range cfg.Components {
		component, err := cfg.Components[i].Component()
		if err != nil {
			return nil, err
		}
		err = components.Add(component)
		if err != nil {
			return nil, err
		}
		if cfg.Components[i].HideUpdates {
			updateChecker.SetShowUpdates(component.Identity, false)
		}
	}

	return components, nil
}
