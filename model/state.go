// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// UpdateCheckState is the cached result of the most recent update check of
// a component. It is always persisted as a whole.
type UpdateCheckState struct {
	// LastCheck is the unix time in seconds of the last check attempt.
	LastCheck int64
	// CheckedVersion is the installed version at the time of LastCheck.
	CheckedVersion string
	// Update is the last successfully fetched update, if any. It is not
	// necessarily newer than the installed version.
	Update *UpdateRecord
}

// Clone returns a deep copy of the state.
func (s *UpdateCheckState) Clone() *UpdateCheckState {
	if s == nil {
		return nil
	}
	return &UpdateCheckState{
		LastCheck:      s.LastCheck,
		CheckedVersion: s.CheckedVersion,
		Update:         s.Update.Clone(),
	}
}

// NewUpdateCheckStateFromReader decodes an UpdateCheckState. A JSON null
// yields nil.
func NewUpdateCheckStateFromReader(reader io.Reader) (*UpdateCheckState, error) {
	var state *UpdateCheckState
	err := json.NewDecoder(reader).Decode(&state)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode update state")
	}
	return state, nil
}
