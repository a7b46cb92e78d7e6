// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// TranslationRecord is a language pack bundled with an available update.
type TranslationRecord struct {
	// Language is the locale code, e.g. "de_DE".
	Language string
	// Updated is when the language pack was last built, either as unix
	// seconds or as a date string.
	Updated string
	Version string
	Package string
	// Extra carries any other fields of the remote payload.
	Extra map[string]interface{}
}

var translationKnownFields = []string{"language", "updated", "version", "package"}

// UpdatedAt parses Updated.
func (t *TranslationRecord) UpdatedAt() (time.Time, error) {
	return ParseTimestamp(t.Updated)
}

// Clone returns a deep copy of the record.
func (t TranslationRecord) Clone() TranslationRecord {
	t.Extra = cloneExtra(t.Extra)
	return t
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (t *TranslationRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "failed to decode translation")
	}

	*t = TranslationRecord{
		Language: stringField(raw, "language"),
		Updated:  stringField(raw, "updated"),
		Version:  stringField(raw, "version"),
		Package:  stringField(raw, "package"),
	}
	for _, key := range translationKnownFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		t.Extra = raw
	}

	return nil
}

// MarshalJSON writes the known fields merged with Extra.
func (t TranslationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// Map returns the flattened payload of the translation.
func (t *TranslationRecord) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(t.Extra)+4)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["language"] = t.Language
	if t.Updated != "" {
		out["updated"] = t.Updated
	}
	if t.Version != "" {
		out["version"] = t.Version
	}
	if t.Package != "" {
		out["package"] = t.Package
	}
	return out
}

// ToHostFormat converts the translation into an entry of the host's list of
// translation updates. Fields of the payload take precedence over the
// defaults derived from the component.
func (t *TranslationRecord) ToHostFormat(component *Component) map[string]interface{} {
	entry := map[string]interface{}{
		"type":       string(component.Type),
		"slug":       component.DirectoryName,
		"autoupdate": 0,
		"version":    t.hostVersion(),
	}
	for k, v := range t.Map() {
		entry[k] = v
	}
	return entry
}

// hostVersion synthesizes a version for translations that lack one.
func (t *TranslationRecord) hostVersion() string {
	if t.Version != "" {
		return t.Version
	}
	updated, err := t.UpdatedAt()
	if err != nil {
		return "1.0"
	}
	return "1." + strconv.FormatInt(updated.Unix(), 10)
}

// InstalledTranslation is a translation already present on the host.
type InstalledTranslation struct {
	Language string
	// RevisionDate is the PO-Revision-Date header of the installed file.
	RevisionDate string
}

// RevisionAt parses RevisionDate.
func (t *InstalledTranslation) RevisionAt() (time.Time, error) {
	return ParseTimestamp(t.RevisionDate)
}

// poRevisionLayouts are the layouts gettext tools write PO-Revision-Date in.
var poRevisionLayouts = []string{
	"2006-01-02 15:04-0700",
	"2006-01-02 15:04:05-0700",
}

// ParseTimestamp parses either unix seconds or a date in any common layout.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	for _, layout := range poRevisionLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to parse timestamp %q", value)
	}
	return parsed, nil
}

func stringField(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
