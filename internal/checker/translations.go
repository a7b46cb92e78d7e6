package checker

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/updatechecker/model"
)

// filterApplicableTranslations keeps the translations the host can use: those
// for an available locale, or newer than the installed translation of the
// same language when one exists. Input order is preserved.
func (c *Checker) filterApplicableTranslations(component *model.Component, translations []model.TranslationRecord, logger logrus.FieldLogger) []model.TranslationRecord {
	available := make(map[string]bool)
	installed := make(map[string]model.InstalledTranslation)

	if c.translations != nil {
		locales, err := c.translations.AvailableLocales()
		if err != nil {
			logger.WithError(err).Warn("Failed to list available locales")
		}
		for _, locale := range locales {
			available[locale] = true
		}

		installed, err = c.translations.InstalledTranslations(component.Type, component.DirectoryName)
		if err != nil {
			logger.WithError(err).Warn("Failed to list installed translations")
		}
	}

	applicable := make([]model.TranslationRecord, 0, len(translations))
	for _, translation := range translations {
		isApplicable := available[translation.Language]

		if existing, ok := installed[translation.Language]; ok {
			isApplicable = isNewer(&translation, &existing)
		}

		if isApplicable {
			applicable = append(applicable, translation)
		}
	}

	return applicable
}

// isNewer reports whether candidate was built after the installed revision.
// A candidate without a readable timestamp never replaces an installed
// translation; an installed translation without one is always replaced.
func isNewer(candidate *model.TranslationRecord, installed *model.InstalledTranslation) bool {
	updated, err := candidate.UpdatedAt()
	if err != nil {
		return false
	}
	revision, err := installed.RevisionAt()
	if err != nil {
		return true
	}
	return updated.After(revision)
}

// GetTranslationUpdates returns the cached translation updates of component.
func (c *Checker) GetTranslationUpdates(component *model.Component) ([]model.TranslationRecord, error) {
	state, err := c.GetUpdateState(component)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Update == nil {
		return []model.TranslationRecord{}, nil
	}
	if state.Update.Translations == nil {
		return []model.TranslationRecord{}, nil
	}

	return state.Update.Translations, nil
}

// ClearCachedTranslationUpdates drops the cached translation updates of
// component, keeping the rest of its state.
func (c *Checker) ClearCachedTranslationUpdates(component *model.Component) error {
	state, err := c.GetUpdateState(component)
	if err != nil {
		return err
	}
	if state == nil || state.Update == nil || state.Update.Translations == nil {
		return nil
	}

	state.Update.Translations = []model.TranslationRecord{}
	err = c.store.SaveUpdateState(component.StateKey(), state)
	if err != nil {
		return errors.Wrap(err, "failed to clear cached translation updates")
	}

	return nil
}
