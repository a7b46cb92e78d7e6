package header

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/updatechecker/model"
)

const pluginHeader = `<?php
/**
 * Plugin Name: My Plugin
 * Plugin URI:  https://example.com/my-plugin
 * Version:     1.4.2
 * Text Domain: my-plugin */
`

const themeHeader = "/*\r\nTheme Name: My Theme\r\nVersion: 2.0-beta ?>\r\n*/\r\n"

func TestParse(t *testing.T) {
	t.Run("plugin", func(t *testing.T) {
		headers := Parse([]byte(pluginHeader), PluginHeaders)
		assert.Equal(t, "My Plugin", headers["Name"])
		assert.Equal(t, "https://example.com/my-plugin", headers["PluginURI"])
		assert.Equal(t, "1.4.2", headers["Version"])
		assert.Equal(t, "my-plugin", headers["TextDomain"])
		assert.Equal(t, "", headers["RequiresPHP"])
	})

	t.Run("theme with carriage returns", func(t *testing.T) {
		headers := Parse([]byte(themeHeader), ThemeHeaders)
		assert.Equal(t, "My Theme", headers["Name"])
		assert.Equal(t, "2.0-beta", headers["Version"])
	})

	t.Run("case insensitive", func(t *testing.T) {
		headers := Parse([]byte("# version: 3.1"), map[string]string{"Version": "Version"})
		assert.Equal(t, "3.1", headers["Version"])
	})

	t.Run("only the first 8 KiB", func(t *testing.T) {
		content := strings.Repeat("x", maxHeaderSize) + "\nVersion: 9.9\n"
		headers := Parse([]byte(content), PluginHeaders)
		assert.Equal(t, "", headers["Version"])
	})

	t.Run("patterns are compiled once per name", func(t *testing.T) {
		Parse([]byte(pluginHeader), PluginHeaders)
		assert.Same(t, fieldPattern("Plugin Name"), fieldPattern("Plugin Name"))
		assert.NotSame(t, fieldPattern("Plugin Name"), fieldPattern("Theme Name"))
	})
}

func TestReader(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/plugins/my-plugin/main.php", []byte(pluginHeader), 0644))
	require.NoError(t, afero.WriteFile(fs, "/plugins/simple/simple.php", []byte("<?php\n// Version: 0.3\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/themes/my-theme/style.css", []byte(themeHeader), 0644))

	reader := NewReader(fs, "/plugins", "/themes")

	makeComponent := func(componentType model.ComponentType, dir, pluginFile string) *model.Component {
		identity, err := model.NewIdentity(componentType, dir, "")
		require.NoError(t, err)
		return &model.Component{Identity: identity, PluginFile: pluginFile}
	}

	t.Run("plugin main file", func(t *testing.T) {
		installed, err := reader.InstalledVersion(makeComponent(model.PluginType, "my-plugin", "my-plugin/main.php"))
		require.NoError(t, err)
		assert.Equal(t, "1.4.2", installed)
	})

	t.Run("plugin default main file", func(t *testing.T) {
		installed, err := reader.InstalledVersion(makeComponent(model.PluginType, "simple", ""))
		require.NoError(t, err)
		assert.Equal(t, "0.3", installed)
	})

	t.Run("theme", func(t *testing.T) {
		installed, err := reader.InstalledVersion(makeComponent(model.ThemeType, "my-theme", ""))
		require.NoError(t, err)
		assert.Equal(t, "2.0-beta", installed)
	})

	t.Run("missing component", func(t *testing.T) {
		installed, err := reader.InstalledVersion(makeComponent(model.ThemeType, "missing", ""))
		require.Error(t, err)
		assert.Empty(t, installed)
	})
}
