// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// HostUpdateList is the host's aggregate list of available updates, keyed
// by component path, plus its list of translation updates.
type HostUpdateList struct {
	Response     map[string]map[string]interface{} `json:"response"`
	Translations []map[string]interface{}          `json:"translations"`
}

// NewHostUpdateListFromReader decodes a HostUpdateList. An empty body
// yields nil.
func NewHostUpdateListFromReader(reader io.Reader) (*HostUpdateList, error) {
	var list *HostUpdateList
	err := json.NewDecoder(reader).Decode(&list)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode update list")
	}
	return list, nil
}
