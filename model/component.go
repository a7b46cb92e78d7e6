// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
)

// ComponentType is the kind of installed component being checked.
type ComponentType string

// Supported component types.
const (
	PluginType ComponentType = "plugin"
	ThemeType  ComponentType = "theme"
)

// Valid reports whether the type is one of the supported component types.
func (t ComponentType) Valid() bool {
	return t == PluginType || t == ThemeType
}

// RootDirectoryName is the directory name of a component installed directly in
// the install root. Such components are never renamed after extraction.
const RootDirectoryName = "."

// Identity uniquely names an installed component.
type Identity struct {
	DirectoryName string
	Slug          string
	Type          ComponentType
}

// NewIdentity returns an Identity, defaulting the slug to the directory name.
func NewIdentity(componentType ComponentType, directoryName, slug string) (Identity, error) {
	if directoryName == "" {
		return Identity{}, errors.New("directory name must not be empty")
	}
	if !componentType.Valid() {
		return Identity{}, errors.Errorf("unsupported component type %q", componentType)
	}
	if slug == "" {
		slug = directoryName
	}

	return Identity{
		DirectoryName: directoryName,
		Slug:          slug,
		Type:          componentType,
	}, nil
}

// filterSuffix is empty for plugins so that plugin names stay compatible with
// the names used before theme support existed.
func (i Identity) filterSuffix() string {
	if i.Type == ThemeType {
		return "theme"
	}
	return ""
}

// UniqueName returns the component-scoped name of a hook or persisted entry.
// For example, "request_update_result" becomes
// "updatechecker_request_update_result-my-plugin".
func (i Identity) UniqueName(tag string) string {
	name := "updatechecker_" + tag
	if suffix := i.filterSuffix(); suffix != "" {
		name += "_" + suffix
	}
	return name + "-" + i.Slug
}

// StateKey returns the key under which the update state of this component is
// persisted.
func (i Identity) StateKey() string {
	if suffix := i.filterSuffix(); suffix != "" {
		return "external_updates_" + suffix + "-" + i.Slug
	}
	return "external_updates-" + i.Slug
}

// Component is a registered component whose updates are checked.
type Component struct {
	Identity

	// MetadataURL is the remote endpoint describing the latest version.
	MetadataURL string

	// PluginFile is the plugin's main file relative to the plugins root,
	// e.g. "my-plugin/my-plugin.php". Themes leave it empty.
	PluginFile string

	// CheckPeriod is how often the component should be checked. Zero
	// disables automatic checks.
	CheckPeriod time.Duration

	// OptionName overrides the persisted state key when set.
	OptionName string
}

// StateKey returns the persisted state key of the component.
func (c *Component) StateKey() string {
	if c.OptionName != "" {
		return c.OptionName
	}
	return c.Identity.StateKey()
}

// UpdateListKey returns the key of this component in the host's update list.
func (c *Component) UpdateListKey() string {
	if c.Type == PluginType && c.PluginFile != "" {
		return c.PluginFile
	}
	return c.DirectoryName
}

// ComponentStatus is the view of a registered component returned by the API.
type ComponentStatus struct {
	Slug          string
	DirectoryName string
	Type          ComponentType
	MetadataURL   string
	CheckPeriod   string
}

// NewComponentStatusListFromReader decodes a list of ComponentStatus.
func NewComponentStatusListFromReader(reader io.Reader) ([]*ComponentStatus, error) {
	var statuses []*ComponentStatus
	err := json.NewDecoder(reader).Decode(&statuses)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode component status list")
	}
	return statuses, nil
}
