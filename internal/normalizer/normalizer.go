// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package normalizer renames the top-level directory of an extracted update
// archive to the directory name of the installed component.
package normalizer

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattermost/updatechecker/model"
)

// Error codes of NormalizeError.
const (
	CodeBadArchiveStructure = "incorrect-directory-structure"
	CodeRenameFailed        = "rename-failed"
)

// NormalizeError is a failure the installer must report to the user.
type NormalizeError struct {
	Code    string
	Message string
}

func (e *NormalizeError) Error() string {
	return e.Message
}

// Installer describes the install attempt the normalizer runs for.
type Installer interface {
	// IsUpgrading reports whether the installer is upgrading the identified
	// component.
	IsUpgrading(identity model.Identity) bool
}

// UpgradeTarget is an Installer upgrading exactly one component.
type UpgradeTarget model.Identity

// IsUpgrading implements Installer.
func (t UpgradeTarget) IsUpgrading(identity model.Identity) bool {
	return t.Type == identity.Type && t.DirectoryName == identity.DirectoryName
}

// Normalizer fixes the directory layout of extracted archives.
type Normalizer struct {
	fs     afero.Fs
	logger logrus.FieldLogger
}

// New returns a Normalizer working on fs.
func New(fs afero.Fs, logger logrus.FieldLogger) *Normalizer {
	return &Normalizer{
		fs:     fs,
		logger: logger,
	}
}

// NormalizeFor normalizes source for identity when installer is upgrading
// that component, and returns source untouched otherwise.
func (n *Normalizer) NormalizeFor(installer Installer, identity model.Identity, source, remoteSource string) (string, error) {
	if installer == nil || !installer.IsUpgrading(identity) {
		return source, nil
	}
	return n.Normalize(source, remoteSource, identity.DirectoryName)
}

// Normalize ensures the directory that will be installed is
// remoteSource/canonicalName. source is the directory currently selected for
// installation and must be the single child of remoteSource. It returns the
// path to install from.
func (n *Normalizer) Normalize(source, remoteSource, canonicalName string) (string, error) {
	if canonicalName == model.RootDirectoryName {
		return source, nil
	}

	expected := filepath.Join(remoteSource, canonicalName)
	if filepath.Clean(source) == expected {
		return source, nil
	}

	child, ok := n.archiveRoot(source, remoteSource)
	if !ok {
		return "", &NormalizeError{
			Code: CodeBadArchiveStructure,
			Message: fmt.Sprintf(
				"The directory structure of the update is incorrect. All files should be inside a directory named %s, not at the root of the archive.",
				canonicalName,
			),
		}
	}

	logger := n.logger.WithFields(logrus.Fields{
		"source": child,
		"target": expected,
	})
	logger.Infof("Renaming %s to %s", filepath.Base(child), canonicalName)

	err := n.fs.Rename(child, expected)
	if err != nil {
		logger.WithError(err).Warn("Failed to rename update directory")
		return "", &NormalizeError{
			Code:    CodeRenameFailed,
			Message: "Unable to rename the update to match the existing directory.",
		}
	}

	logger.Debug("Directory successfully renamed")

	return expected, nil
}

// archiveRoot returns the single top-level directory of remoteSource, which
// source must name. When remoteSource cannot be listed, source is accepted
// only if it is a direct child of remoteSource.
func (n *Normalizer) archiveRoot(source, remoteSource string) (string, bool) {
	source = filepath.Clean(source)
	remoteSource = filepath.Clean(remoteSource)

	entries, err := afero.ReadDir(n.fs, remoteSource)
	if err != nil {
		n.logger.WithError(err).Debugf("Failed to list %s", remoteSource)
		return source, filepath.Dir(source) == remoteSource
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return "", false
	}

	child := filepath.Join(remoteSource, entries[0].Name())
	if source != child {
		n.logger.Warnf("Refusing to rename %s, the archive root is %s", source, child)
		return "", false
	}

	return child, true
}
