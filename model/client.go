// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Client is the programmatic interface to the updatechecker API.
type Client struct {
	address    string
	headers    map[string]string
	httpClient *http.Client
}

// NewClient creates a new instance of Client.
func NewClient(address string) *Client {
	return &Client{
		address:    address,
		headers:    make(map[string]string),
		httpClient: &http.Client{},
	}
}

// GetComponents returns all registered components.
func (c *Client) GetComponents() ([]*ComponentStatus, error) {
	resp, err := c.doGet(c.buildURL("/components"))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewComponentStatusListFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetUpdateState returns the cached update state of a component, or nil if
// it was never checked.
func (c *Client) GetUpdateState(slug string) (*UpdateCheckState, error) {
	resp, err := c.doGet(c.buildURL("/component/%s/state", url.PathEscape(slug)))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		return NewUpdateCheckStateFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// ResetUpdateState forgets the cached update state of a component.
func (c *Client) ResetUpdateState(slug string) error {
	resp, err := c.doDelete(c.buildURL("/component/%s/state", url.PathEscape(slug)))
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil

	default:
		return errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetUpdate returns the cached update of a component if it is newer than
// installedVersion. An empty installedVersion lets the server read it from
// the installed component.
func (c *Client) GetUpdate(slug, installedVersion string) (*UpdateRecord, error) {
	resp, err := c.doGet(c.componentURL(slug, "update", installedVersion))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		return NewUpdateRecordFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// CheckForUpdates makes the server fetch the remote metadata of a component
// now. It returns the update that should be offered, if any.
func (c *Client) CheckForUpdates(slug, installedVersion string) (*UpdateRecord, error) {
	resp, err := c.doPost(c.componentURL(slug, "check", installedVersion), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewUpdateRecordFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetTranslationUpdates returns the cached translation updates of a
// component.
func (c *Client) GetTranslationUpdates(slug string) ([]TranslationRecord, error) {
	resp, err := c.doGet(c.buildURL("/component/%s/translations", url.PathEscape(slug)))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewTranslationListFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// ClearTranslationUpdates drops the cached translation updates of a
// component.
func (c *Client) ClearTranslationUpdates(slug string) error {
	resp, err := c.doDelete(c.buildURL("/component/%s/translations", url.PathEscape(slug)))
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil

	default:
		return errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// InjectUpdates merges the updates of a component into list and returns
// the result.
func (c *Client) InjectUpdates(slug, installedVersion string, list *HostUpdateList) (*HostUpdateList, error) {
	resp, err := c.doPost(c.componentURL(slug, "inject", installedVersion), list)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewHostUpdateListFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// NormalizeSource renames the extracted update of a component to its
// installed directory name. Failures the user must see are returned as
// *ErrorResponse.
func (c *Client) NormalizeSource(slug string, request *NormalizeRequest) (*NormalizeResponse, error) {
	resp, err := c.doPost(c.buildURL("/component/%s/normalize", url.PathEscape(slug)), request)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewNormalizeResponseFromReader(resp.Body)
	case http.StatusUnprocessableEntity:
		errResponse, err := NewErrorResponseFromReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, errResponse

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// closeBody ensures the Body of an http.Response is properly closed.
func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}

// buildURL builds a complete URL from a path and arguments.
func (c *Client) buildURL(urlPath string, args ...interface{}) string {
	return fmt.Sprintf("%s%s", c.address, fmt.Sprintf(urlPath, args...))
}

func (c *Client) componentURL(slug, action, installedVersion string) string {
	u := c.buildURL("/component/%s/%s", url.PathEscape(slug), action)
	if installedVersion != "" {
		u += "?installed=" + url.QueryEscape(installedVersion)
	}
	return u
}

func (c *Client) doGet(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}

	return c.httpClient.Do(req)
}

func (c *Client) doPost(u string, request interface{}) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if request != nil {
		requestBytes, err := json.Marshal(request)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(requestBytes)
	}

	req, err := http.NewRequest(http.MethodPost, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) doDelete(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}

	return c.httpClient.Do(req)
}
