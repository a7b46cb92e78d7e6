// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package checker keeps the cached update state of registered components in
// sync with their remote metadata.
package checker

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/mattermost/updatechecker/internal/hooks"
	"github.com/mattermost/updatechecker/internal/metadata"
	"github.com/mattermost/updatechecker/internal/transport"
	"github.com/mattermost/updatechecker/internal/version"
	"github.com/mattermost/updatechecker/model"
)

// ErrInstalledVersionUnknown is logged when a check is skipped because the
// installed version of a component could not be determined.
var ErrInstalledVersionUnknown = errors.New("installed version unknown")

// maxCheckDuration bounds a single check including all fetch retries.
const maxCheckDuration = 2 * time.Minute

// StateStore persists one UpdateCheckState per key.
type StateStore interface {
	GetUpdateState(key string) (*model.UpdateCheckState, error)
	SaveUpdateState(key string, state *model.UpdateCheckState) error
	DeleteUpdateState(key string) error
}

// TranslationSource describes the translations the host can use.
type TranslationSource interface {
	// AvailableLocales lists the locales the host is configured for.
	AvailableLocales() ([]string, error)
	// InstalledTranslations returns the installed translations of a
	// component keyed by language.
	InstalledTranslations(componentType model.ComponentType, directoryName string) (map[string]model.InstalledTranslation, error)
}

// Checker fetches, caches and exposes component updates.
type Checker struct {
	store        StateStore
	fetcher      transport.Fetcher
	translations TranslationSource
	hooks        *hooks.Registry
	logger       logrus.FieldLogger
	now          func() time.Time

	group singleflight.Group

	hiddenLock sync.RWMutex
	hidden     map[string]bool
}

// NewChecker returns a Checker. A nil registry is replaced by an empty one.
func NewChecker(store StateStore, fetcher transport.Fetcher, translations TranslationSource, registry *hooks.Registry, logger logrus.FieldLogger) *Checker {
	if registry == nil {
		registry = hooks.NewRegistry()
	}

	return &Checker{
		store:        store,
		fetcher:      fetcher,
		translations: translations,
		hooks:        registry,
		logger:       logger,
		now:          time.Now,
		hidden:       make(map[string]bool),
	}
}

// SetClock replaces the time source used to stamp checks.
func (c *Checker) SetClock(now func() time.Time) {
	c.now = now
}

// Hooks returns the registry consulted by the checker.
func (c *Checker) Hooks() *hooks.Registry {
	return c.hooks
}

// AddFilter registers a filter for the component-scoped hook named by tag.
func (c *Checker) AddFilter(identity model.Identity, tag string, filter hooks.UpdateFilter) {
	c.hooks.Register(identity.UniqueName(tag), filter)
}

// CheckForUpdates fetches the remote metadata of component and caches the
// result. It returns the update the installed version should be offered, if
// any. Fetch and validation failures are logged and leave the cached update
// untouched; only storage failures are returned.
func (c *Checker) CheckForUpdates(ctx context.Context, component *model.Component, installedVersion string) (*model.UpdateRecord, error) {
	logger := c.logger.WithField("component", component.Slug)

	if installedVersion == "" {
		logger.WithError(ErrInstalledVersionUnknown).Warnf("Skipping update check for %s", component.Slug)
		return nil, nil
	}

	flightKey := component.StateKey() + "\x00" + installedVersion
	result, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		// Joined callers share this check, so it must outlive the caller
		// that started it.
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxCheckDuration)
		defer cancel()

		return c.checkForUpdates(checkCtx, component, installedVersion, logger)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Joined an update check already in progress")
	}

	update, _ := result.(*model.UpdateRecord)
	return update.Clone(), nil
}

func (c *Checker) checkForUpdates(ctx context.Context, component *model.Component, installedVersion string, logger logrus.FieldLogger) (*model.UpdateRecord, error) {
	key := component.StateKey()

	state, err := c.store.GetUpdateState(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load update state")
	}
	if state == nil {
		state = &model.UpdateCheckState{}
	}

	state.LastCheck = c.now().Unix()
	state.CheckedVersion = installedVersion
	err = c.store.SaveUpdateState(key, state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record update check attempt")
	}

	update, ok := c.requestUpdate(ctx, component, logger)
	if ok {
		state.Update = update
	}

	err = c.store.SaveUpdateState(key, state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save update state")
	}

	if ok {
		if update != nil {
			logger.WithField("version", update.Version).Debug("Fetched update metadata")
		} else {
			logger.Debug("Fetched update metadata was discarded by a filter")
		}
	}

	return c.GetUpdate(component, installedVersion)
}

// requestUpdate fetches and parses the remote metadata. The returned flag is
// false when the fetch failed and the cached update must be kept.
func (c *Checker) requestUpdate(ctx context.Context, component *model.Component, logger logrus.FieldLogger) (*model.UpdateRecord, bool) {
	result := c.fetcher.Fetch(ctx, component.MetadataURL)

	body, err := metadata.Validate(result)
	if err != nil {
		logger.WithError(err).Warnf("The URL %s does not point to a valid metadata file", component.MetadataURL)
		return nil, false
	}

	update, err := metadata.ParseUpdate(body)
	if err != nil {
		logger.WithError(err).Warnf("Failed to parse update metadata from %s", component.MetadataURL)
		return nil, false
	}

	update = c.hooks.Apply(component.UniqueName(hooks.RequestUpdateResult), update, result)
	if update != nil && update.Translations != nil {
		update.Translations = c.filterApplicableTranslations(component, update.Translations, logger)
	}

	return update, true
}

// GetUpdateState returns the cached state of component, or nil if it was
// never checked.
func (c *Checker) GetUpdateState(component *model.Component) (*model.UpdateCheckState, error) {
	state, err := c.store.GetUpdateState(component.StateKey())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load update state")
	}
	return state, nil
}

// GetUpdate returns the cached update of component if it is strictly newer
// than installedVersion. Callers must use it instead of reading the cached
// state to offer updates.
func (c *Checker) GetUpdate(component *model.Component, installedVersion string) (*model.UpdateRecord, error) {
	state, err := c.GetUpdateState(component)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Update == nil || installedVersion == "" {
		return nil, nil
	}
	if !version.GreaterThan(state.Update.Version, installedVersion) {
		return nil, nil
	}

	return state.Update, nil
}

// ResetUpdateState forgets everything cached about component.
func (c *Checker) ResetUpdateState(component *model.Component) error {
	err := c.store.DeleteUpdateState(component.StateKey())
	if err != nil {
		return errors.Wrap(err, "failed to reset update state")
	}
	return nil
}

// SetShowUpdates controls whether updates of the identified component are
// merged into the host's update list.
func (c *Checker) SetShowUpdates(identity model.Identity, show bool) {
	c.hiddenLock.Lock()
	defer c.hiddenLock.Unlock()

	key := identity.StateKey()
	if show {
		delete(c.hidden, key)
		return
	}
	c.hidden[key] = true
}

// ShowUpdates reports whether updates of the identified component are
// merged into the host's update list.
func (c *Checker) ShowUpdates(identity model.Identity) bool {
	c.hiddenLock.RLock()
	defer c.hiddenLock.RUnlock()

	return !c.hidden[identity.StateKey()]
}
