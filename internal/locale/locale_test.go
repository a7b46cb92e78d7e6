package locale

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/updatechecker/internal/testlib"
	"github.com/mattermost/updatechecker/model"
)

const poFile = `msgid ""
msgstr ""
"Project-Id-Version: My Plugin 1.0\n"
"PO-Revision-Date: 2021-03-04 05:06+0100\n"
"Language: de_DE\n"
`

func makeFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for path, content := range map[string]string{
		"/languages/de_DE.mo":                      "",
		"/languages/admin-de_DE.mo":                "",
		"/languages/continents-cities-de_DE.mo":    "",
		"/languages/ja.mo":                         "",
		"/languages/plugins/my-plugin-de_DE.po":    poFile,
		"/languages/plugins/my-plugin-de_DE.mo":    "",
		"/languages/plugins/my-plugin-fr_FR.po":    "msgid \"\"\nmsgstr \"\"\n",
		"/languages/plugins/other-plugin-es_ES.po": poFile,
		"/languages/themes/my-plugin-it_IT.po":     poFile,
		"/languages/themes/my-theme-pt_BR.po":      poFile,
	} {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

// unreadableFs fails to open one path.
type unreadableFs struct {
	afero.Fs
	path string
}

func (fs *unreadableFs) Open(name string) (afero.File, error) {
	if name == fs.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fs.Fs.Open(name)
}

func TestAvailableLocales(t *testing.T) {
	source := NewSource(makeFs(t), "/languages", []string{"fr_FR", "de_DE"}, testlib.MakeLogger(t))

	locales, err := source.AvailableLocales()
	require.NoError(t, err)
	assert.Equal(t, []string{"de_DE", "fr_FR", "ja"}, locales)

	t.Run("without languages directory", func(t *testing.T) {
		source := NewSource(afero.NewMemMapFs(), "", []string{"en_GB"}, testlib.MakeLogger(t))
		locales, err := source.AvailableLocales()
		require.NoError(t, err)
		assert.Equal(t, []string{"en_GB"}, locales)
	})
}

func TestInstalledTranslations(t *testing.T) {
	source := NewSource(makeFs(t), "/languages", nil, testlib.MakeLogger(t))

	installed, err := source.InstalledTranslations(model.PluginType, "my-plugin")
	require.NoError(t, err)
	require.Len(t, installed, 2)

	de := installed["de_DE"]
	assert.Equal(t, "de_DE", de.Language)
	assert.Equal(t, "2021-03-04 05:06+0100", de.RevisionDate)
	revision, err := de.RevisionAt()
	require.NoError(t, err)
	assert.True(t, time.Date(2021, 3, 4, 4, 6, 0, 0, time.UTC).Equal(revision))

	fr := installed["fr_FR"]
	assert.Equal(t, "fr_FR", fr.Language)
	assert.Empty(t, fr.RevisionDate)

	t.Run("themes", func(t *testing.T) {
		installed, err := source.InstalledTranslations(model.ThemeType, "my-theme")
		require.NoError(t, err)
		assert.Contains(t, installed, "pt_BR")
		assert.Len(t, installed, 1)
	})

	t.Run("nothing installed", func(t *testing.T) {
		installed, err := source.InstalledTranslations(model.ThemeType, "unknown")
		require.NoError(t, err)
		assert.Empty(t, installed)
	})

	t.Run("unreadable file is skipped", func(t *testing.T) {
		fs := &unreadableFs{Fs: makeFs(t), path: "/languages/plugins/my-plugin-fr_FR.po"}
		source := NewSource(fs, "/languages", nil, testlib.MakeLogger(t))

		installed, err := source.InstalledTranslations(model.PluginType, "my-plugin")
		require.NoError(t, err)
		require.Len(t, installed, 1)
		assert.Equal(t, "2021-03-04 05:06+0100", installed["de_DE"].RevisionDate)
	})
}
