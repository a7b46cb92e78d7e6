// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// UpdateRecord describes one available update of a component.
type UpdateRecord struct {
	Slug         string
	Version      string
	DownloadURL  string
	Translations []TranslationRecord
	// Extra carries fields of the remote payload that are passed through
	// untouched, e.g. "homepage", "requires" or "tested".
	Extra map[string]interface{}
}

type updateTranslationsJSON struct {
	Translations []TranslationRecord `json:"translations"`
}

var updateKnownFields = []string{"slug", "version", "download_url", "translations"}

// Clone returns a deep copy of the record.
func (u *UpdateRecord) Clone() *UpdateRecord {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Extra = cloneExtra(u.Extra)
	if u.Translations != nil {
		clone.Translations = make([]TranslationRecord, 0, len(u.Translations))
		for _, t := range u.Translations {
			clone.Translations = append(clone.Translations, t.Clone())
		}
	}
	return &clone
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (u *UpdateRecord) UnmarshalJSON(data []byte) error {
	var known updateTranslationsJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return errors.Wrap(err, "failed to decode update translations")
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "failed to decode update")
	}

	*u = UpdateRecord{
		Slug:         stringField(raw, "slug"),
		Version:      stringField(raw, "version"),
		DownloadURL:  stringField(raw, "download_url"),
		Translations: known.Translations,
	}
	for _, key := range updateKnownFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		u.Extra = raw
	}

	return nil
}

// MarshalJSON writes the known fields merged with Extra.
func (u UpdateRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["version"] = u.Version
	if u.Slug != "" {
		out["slug"] = u.Slug
	}
	if u.DownloadURL != "" {
		out["download_url"] = u.DownloadURL
	}
	if u.Translations != nil {
		out["translations"] = u.Translations
	}
	return json.Marshal(out)
}

// ToHostFormat converts the update into the entry format of the host's
// update list for the given component type.
func (u *UpdateRecord) ToHostFormat(component *Component) map[string]interface{} {
	entry := make(map[string]interface{}, len(u.Extra)+5)
	for k, v := range u.Extra {
		entry[k] = v
	}

	entry["new_version"] = u.Version
	entry["package"] = u.DownloadURL
	if _, ok := entry["url"]; !ok {
		entry["url"] = stringField(u.Extra, "homepage")
	}

	if component.Type == ThemeType {
		entry["theme"] = component.DirectoryName
		return entry
	}

	slug := u.Slug
	if slug == "" {
		slug = component.Slug
	}
	entry["slug"] = slug
	entry["plugin"] = component.UpdateListKey()
	return entry
}

// NewUpdateRecordFromReader decodes an UpdateRecord. A JSON null yields nil.
func NewUpdateRecordFromReader(reader io.Reader) (*UpdateRecord, error) {
	var update *UpdateRecord
	err := json.NewDecoder(reader).Decode(&update)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode update")
	}
	return update, nil
}

// NewTranslationListFromReader decodes a list of TranslationRecord.
func NewTranslationListFromReader(reader io.Reader) ([]TranslationRecord, error) {
	var translations []TranslationRecord
	err := json.NewDecoder(reader).Decode(&translations)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode translations")
	}
	return translations, nil
}

func cloneExtra(extra map[string]interface{}) map[string]interface{} {
	if extra == nil {
		return nil
	}
	out := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}
