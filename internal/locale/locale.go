// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package locale describes the translations available on the host.
package locale

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattermost/updatechecker/model"
)

// poHeaderSize is how much of a PO file is searched for its revision date.
const poHeaderSize = 8192

var revisionDate = regexp.MustCompile(`(?m)^"PO-Revision-Date:\s*([^"\\]*)`)

// Source lists configured locales and installed translations below a
// languages directory laid out as <dir>/<type>s/<domain>-<locale>.po.
type Source struct {
	fs           afero.Fs
	languagesDir string
	locales      []string
	logger       logrus.FieldLogger
}

// NewSource returns a Source. locales are always reported as available, in
// addition to the core translations found in languagesDir.
func NewSource(fs afero.Fs, languagesDir string, locales []string, logger logrus.FieldLogger) *Source {
	return &Source{
		fs:           fs,
		languagesDir: languagesDir,
		logger:       logger,
		locales:      locales,
	}
}

// AvailableLocales returns the configured locales and those with a core
// translation installed, sorted.
func (s *Source) AvailableLocales() ([]string, error) {
	seen := make(map[string]bool)
	for _, locale := range s.locales {
		seen[locale] = true
	}

	if s.languagesDir != "" {
		matches, err := afero.Glob(s.fs, filepath.Join(s.languagesDir, "*.mo"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to list core translations")
		}
		for _, match := range matches {
			name := strings.TrimSuffix(filepath.Base(match), ".mo")
			if strings.HasPrefix(name, "admin-") || strings.HasPrefix(name, "continents-cities") {
				continue
			}
			seen[name] = true
		}
	}

	locales := make([]string, 0, len(seen))
	for locale := range seen {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	return locales, nil
}

// InstalledTranslations returns the installed translations of a component,
// keyed by language. Unreadable translation files are skipped.
func (s *Source) InstalledTranslations(componentType model.ComponentType, directoryName string) (map[string]model.InstalledTranslation, error) {
	installed := make(map[string]model.InstalledTranslation)
	if s.languagesDir == "" {
		return installed, nil
	}

	dir := filepath.Join(s.languagesDir, string(componentType)+"s")
	matches, err := afero.Glob(s.fs, filepath.Join(dir, directoryName+"-*.po"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list translations in %s", dir)
	}

	for _, match := range matches {
		language := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(match), directoryName+"-"), ".po")
		if language == "" || strings.Contains(language, "-") {
			continue
		}
		revision, err := s.readRevisionDate(match)
		if err != nil {
			s.logger.WithError(err).Warnf("Skipping unreadable translation %s", match)
			continue
		}
		installed[language] = model.InstalledTranslation{
			Language:     language,
			RevisionDate: revision,
		}
	}

	return installed, nil
}

func (s *Source) readRevisionDate(path string) (string, error) {
	file, err := s.fs.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, poHeaderSize))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	matches := revisionDate.FindSubmatch(content)
	if matches == nil {
		return "", nil
	}
	return strings.TrimSpace(string(matches[1])), nil
}
