// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package supervisor

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mattermost/updatechecker/model"
)

// DefaultInterval is how often components are inspected by default.
const DefaultInterval = 60 * time.Second

type updateChecker interface {
	GetUpdateState(component *model.Component) (*model.UpdateCheckState, error)
	CheckForUpdates(ctx context.Context, component *model.Component, installedVersion string) (*model.UpdateRecord, error)
}

type componentLister interface {
	List() []*model.Component
}

// VersionReader reads the installed version of a component.
type VersionReader interface {
	InstalledVersion(component *model.Component) (string, error)
}

// CheckSupervisor periodically checks registered components whose cached
// update state is stale.
type CheckSupervisor struct {
	logger     log.FieldLogger
	checker    updateChecker
	components componentLister
	versions   VersionReader
	interval   time.Duration
	now        func() time.Time
}

// NewCheckSupervisor returns a CheckSupervisor prepared with the needed
// collaborators to operate.
func NewCheckSupervisor(checker updateChecker, components componentLister, versions VersionReader, interval time.Duration, logger log.FieldLogger) *CheckSupervisor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &CheckSupervisor{
		logger:     logger.WithField("supervisor", model.NewID()),
		checker:    checker,
		components: components,
		versions:   versions,
		interval:   interval,
		now:        time.Now,
	}
}

// Start runs the supervisor's main routine on a new goroutine until ctx is
// done.
func (s *CheckSupervisor) Start(ctx context.Context) {
	s.logger.Info("Check supervisor started")
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			err := s.Supervise(ctx)
			if err != nil {
				s.logger.WithError(err).Error("Failed an operation while supervising update checks")
			}

			select {
			case <-ctx.Done():
				s.logger.Info("Check supervisor stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Supervise checks every stale component once. Failures of individual
// components do not stop the others and are returned together.
func (s *CheckSupervisor) Supervise(ctx context.Context) error {
	var result *multierror.Error

	for _, component := range s.components.List() {
		if ctx.Err() != nil {
			return multierror.Append(result, ctx.Err()).ErrorOrNil()
		}

		logger := s.logger.WithField("component", component.Slug)

		installedVersion, err := s.versions.InstalledVersion(component)
		if err != nil {
			logger.WithError(err).Debug("Failed to read installed version")
			installedVersion = ""
		}

		state, err := s.checker.GetUpdateState(component)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to inspect %s", component.Slug))
			continue
		}
		if !s.isDue(component, state, installedVersion) {
			continue
		}

		logger.Debug("Checking for updates")
		update, err := s.checker.CheckForUpdates(ctx, component, installedVersion)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to check %s", component.Slug))
			continue
		}
		if update != nil {
			logger.Infof("Update to version %s is available", update.Version)
		}
	}

	return result.ErrorOrNil()
}

// isDue reports whether component should be checked now: its check period
// elapsed, or the installed version changed since the last check.
func (s *CheckSupervisor) isDue(component *model.Component, state *model.UpdateCheckState, installedVersion string) bool {
	if component.CheckPeriod <= 0 {
		return false
	}
	if state == nil {
		return true
	}
	if installedVersion != "" && state.CheckedVersion != installedVersion {
		return true
	}

	lastCheck := time.Unix(state.LastCheck, 0)
	return !s.now().Before(lastCheck.Add(component.CheckPeriod))
}
