// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// NormalizeRequest asks for the directory of an extracted update to be
// renamed after a component. UpgradingType and UpgradingDirectory name the
// component the installer is upgrading; when both are empty the component
// addressed by the request is assumed.
type NormalizeRequest struct {
	Source             string
	RemoteSource       string
	UpgradingType      ComponentType `json:",omitempty"`
	UpgradingDirectory string        `json:",omitempty"`
}

// NormalizeResponse carries the directory to install from.
type NormalizeResponse struct {
	Source string
}

// ErrorResponse describes a failure the caller should show to the user.
type ErrorResponse struct {
	Code    string
	Message string
}

func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

// NewComponentStatus returns the API view of a component.
func NewComponentStatus(component *Component) *ComponentStatus {
	return &ComponentStatus{
		Slug:          component.Slug,
		DirectoryName: component.DirectoryName,
		Type:          component.Type,
		MetadataURL:   component.MetadataURL,
		CheckPeriod:   component.CheckPeriod.String(),
	}
}

// NewNormalizeRequestFromReader decodes a NormalizeRequest.
func NewNormalizeRequestFromReader(reader io.Reader) (*NormalizeRequest, error) {
	request := &NormalizeRequest{}
	err := json.NewDecoder(reader).Decode(request)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode normalize request")
	}
	return request, nil
}

// NewNormalizeResponseFromReader decodes a NormalizeResponse.
func NewNormalizeResponseFromReader(reader io.Reader) (*NormalizeResponse, error) {
	response := &NormalizeResponse{}
	err := json.NewDecoder(reader).Decode(response)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode normalize response")
	}
	return response, nil
}

// NewErrorResponseFromReader decodes an ErrorResponse.
func NewErrorResponseFromReader(reader io.Reader) (*ErrorResponse, error) {
	response := &ErrorResponse{}
	err := json.NewDecoder(reader).Decode(response)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode error response")
	}
	return response, nil
}
