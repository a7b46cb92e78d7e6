package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/updatechecker/model"
)

// ErrMalformedPayload is returned for metadata that does not describe an
// update.
var ErrMalformedPayload = errors.New("malformed metadata payload")

// ParseUpdate builds an UpdateRecord from a validated response body.
func ParseUpdate(body []byte) (*model.UpdateRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.Wrap(ErrMalformedPayload, "expected a JSON object")
	}

	update := new(model.UpdateRecord)
	if err := json.Unmarshal(trimmed, update); err != nil {
		return nil, errors.Wrapf(ErrMalformedPayload, "failed to decode metadata: %s", err)
	}

	update.Version = strings.TrimSpace(update.Version)
	if update.Version == "" {
		return nil, errors.Wrap(ErrMalformedPayload, "the required \"version\" field is missing")
	}
	for i, translation := range update.Translations {
		if translation.Language == "" {
			return nil, errors.Wrapf(ErrMalformedPayload, "translation %d has no language", i)
		}
	}

	return update, nil
}
