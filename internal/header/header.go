// Package header reads the metadata header comment of installed plugins and
// themes.
package header

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/mattermost/updatechecker/model"
)

// maxHeaderSize is how much of a file is searched for header fields.
const maxHeaderSize = 8192

// Header field names, keyed by the name used in the returned map.
var (
	PluginHeaders = map[string]string{
		"Name":        "Plugin Name",
		"PluginURI":   "Plugin URI",
		"Version":     "Version",
		"Description": "Description",
		"Author":      "Author",
		"AuthorURI":   "Author URI",
		"TextDomain":  "Text Domain",
		"DomainPath":  "Domain Path",
		"Network":     "Network",
		"RequiresWP":  "Requires at least",
		"RequiresPHP": "Requires PHP",
	}

	ThemeHeaders = map[string]string{
		"Name":        "Theme Name",
		"ThemeURI":    "Theme URI",
		"Version":     "Version",
		"Description": "Description",
		"Author":      "Author",
		"AuthorURI":   "Author URI",
		"Template":    "Template",
		"Status":      "Status",
		"TextDomain":  "Text Domain",
		"DomainPath":  "Domain Path",
	}
)

var commentEnd = regexp.MustCompile(`\s*(?:\*/|\?>).*`)

// fieldPatterns caches the compiled pattern of each header name.
var fieldPatterns sync.Map

func fieldPattern(name string) *regexp.Regexp {
	if pattern, ok := fieldPatterns.Load(name); ok {
		return pattern.(*regexp.Regexp)
	}
	pattern, _ := fieldPatterns.LoadOrStore(name,
		regexp.MustCompile(`(?mi)^[ \t/*#@]*`+regexp.QuoteMeta(name)+`:(.*)$`))
	return pattern.(*regexp.Regexp)
}

// Parse extracts the named header fields from the start of content. Fields
// that are absent map to an empty string.
func Parse(content []byte, names map[string]string) map[string]string {
	if len(content) > maxHeaderSize {
		content = content[:maxHeaderSize]
	}
	text := strings.ReplaceAll(string(content), "\r", "\n")

	results := make(map[string]string, len(names))
	for field, name := range names {
		results[field] = ""
		matches := fieldPattern(name).FindStringSubmatch(text)
		if len(matches) < 2 {
			continue
		}
		results[field] = strings.TrimSpace(commentEnd.ReplaceAllString(matches[1], ""))
	}

	return results
}

// Reader reads headers of components installed below the configured roots.
type Reader struct {
	fs         afero.Fs
	pluginsDir string
	themesDir  string
}

// NewReader returns a Reader for components installed in pluginsDir and
// themesDir.
func NewReader(fs afero.Fs, pluginsDir, themesDir string) *Reader {
	return &Reader{
		fs:         fs,
		pluginsDir: pluginsDir,
		themesDir:  themesDir,
	}
}

// MainFile returns the path of the file holding the component's header: the
// plugin's main file, or the theme's style.css.
func (r *Reader) MainFile(component *model.Component) string {
	if component.Type == model.ThemeType {
		return filepath.Join(r.themesDir, component.DirectoryName, "style.css")
	}
	if component.PluginFile != "" {
		return filepath.Join(r.pluginsDir, component.PluginFile)
	}
	return filepath.Join(r.pluginsDir, component.DirectoryName, component.DirectoryName+".php")
}

// Headers reads the header fields of an installed component.
func (r *Reader) Headers(component *model.Component) (map[string]string, error) {
	path := r.MainFile(component)

	file, err := r.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxHeaderSize))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	names := PluginHeaders
	if component.Type == model.ThemeType {
		names = ThemeHeaders
	}

	return Parse(content, names), nil
}

// InstalledVersion returns the version declared in the component's header.
// It returns an empty string when the component is missing or declares no
// version.
func (r *Reader) InstalledVersion(component *model.Component) (string, error) {
	headers, err := r.Headers(component)
	if err != nil {
		return "", err
	}
	return headers["Version"], nil
}
