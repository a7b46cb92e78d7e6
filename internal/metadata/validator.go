// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package metadata

import (
	"fmt"
	"net/http"

	"github.com/mattermost/updatechecker/model"
)

// FetchErrorKind classifies why a metadata fetch failed.
type FetchErrorKind string

// Kinds of fetch failures.
const (
	FetchErrorTransport        FetchErrorKind = "transport"
	FetchErrorUnexpectedStatus FetchErrorKind = "unexpected-status"
	FetchErrorEmptyBody        FetchErrorKind = "empty-body"
)

// FetchError is a failed metadata fetch.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrorTransport:
		return "HTTP error: " + e.Message
	case FetchErrorUnexpectedStatus:
		return fmt.Sprintf("HTTP response code is %d (expected: 200)", e.StatusCode)
	case FetchErrorEmptyBody:
		return "the metadata file appears to be empty"
	}
	return e.Message
}

// Validate classifies a transport result, returning the body of a successful
// response.
func Validate(result *model.TransportResult) ([]byte, error) {
	if result == nil {
		return nil, &FetchError{Kind: FetchErrorTransport, Message: "no result returned by the transport"}
	}
	if result.Err != nil {
		return nil, &FetchError{Kind: FetchErrorTransport, Message: result.Err.Message}
	}
	if result.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: FetchErrorUnexpectedStatus, StatusCode: result.StatusCode}
	}
	if len(result.Body) == 0 {
		return nil, &FetchError{Kind: FetchErrorEmptyBody, StatusCode: result.StatusCode}
	}

	return result.Body, nil
}
