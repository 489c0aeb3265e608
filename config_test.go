package tailgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/tailgen/internal/theme"
)

const yamlConfig = `
content:
  - "src/**/*.html"
  - "./src/**/*.templ"
  - "!src/vendor/**"
theme:
  extend:
    brightness:
      25: ".25"
      175: "1.75"
    spacing:
      "13": "3.25rem"
plugins:
  - forms
`

const tomlConfig = `
content = ["src/**/*.html", "./src/**/*.templ", "!src/vendor/**"]
plugins = ["forms"]

[theme.extend.brightness]
25 = ".25"
175 = "1.75"

[theme.extend.spacing]
"13" = "3.25rem"
`

func TestParseConfigFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"yaml", FormatYAML, yamlConfig},
		{"toml", FormatTOML, tomlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data), tt.format, "/project")
			require.NoError(t, err)

			assert.Equal(t, "/project", cfg.Root)
			assert.Equal(t, []ContentPattern{
				{Glob: "src/**/*.html"},
				{Glob: "src/**/*.templ"},
				{Glob: "src/vendor/**", Negated: true},
			}, cfg.Content)

			assert.Equal(t, theme.Overlay{
				{Name: "brightness", Entries: []theme.Entry{{Key: "25", Value: ".25"}, {Key: "175", Value: "1.75"}}},
				{Name: "spacing", Entries: []theme.Entry{{Key: "13", Value: "3.25rem"}}},
			}, cfg.Extend)

			assert.Equal(t, []string{"forms"}, cfg.Plugins)
		})
	}
}

func TestConfigThemeKeepsDeclarationOrder(t *testing.T) {
	cfg, err := ParseConfig([]byte(yamlConfig), FormatYAML, ".")
	require.NoError(t, err)

	keys := cfg.Theme().Scale("brightness").Keys()
	require.GreaterOrEqual(t, len(keys), 2)
	assert.Equal(t, []string{"25", "175"}, keys[len(keys)-2:])

	v, ok := cfg.Theme().Lookup("brightness", "25")
	require.True(t, ok)
	assert.Equal(t, ".25", v)
}

func TestParseConfigLenient(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty document", ""},
		{"null sections", "content:\ntheme:\nplugins:\n"},
		{"unknown keys", "darkMode: class\ncorePlugins: {}\n"},
		{"empty extend", "theme:\n  extend: {}\n"},
		{"theme without extend", "theme:\n  colors:\n    brand: '#123456'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data), FormatYAML, ".")
			require.NoError(t, err)
			assert.Empty(t, cfg.Content)
			assert.Empty(t, cfg.Extend)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
		field  string
		line   int
	}{
		{
			name:   "content not a list",
			format: FormatYAML,
			data:   "content: src/**/*.html\n",
			field:  "content",
			line:   1,
		},
		{
			name:   "content item not a string",
			format: FormatYAML,
			data:   "content:\n  - src/*.html\n  - {a: b}\n",
			field:  "content[1]",
			line:   3,
		},
		{
			name:   "invalid glob",
			format: FormatYAML,
			data:   "content:\n  - \"src/[.html\"\n",
			field:  "content[0]",
			line:   2,
		},
		{
			name:   "empty glob",
			format: FormatYAML,
			data:   "content:\n  - \"!\"\n",
			field:  "content[0]",
			line:   2,
		},
		{
			name:   "glob leaves the project root",
			format: FormatYAML,
			data:   "content:\n  - src/**/*.html\n  - ../shared/**/*.html\n",
			field:  "content[1]",
			line:   3,
		},
		{
			name:   "excluded glob leaves the project root",
			format: FormatTOML,
			data:   "content = [\"!src/../../x/**\"]\n",
			field:  "content[0]",
			line:   1,
		},
		{
			name:   "absolute glob",
			format: FormatYAML,
			data:   "content:\n  - /srv/site/**/*.html\n",
			field:  "content[0]",
			line:   2,
		},
		{
			name:   "theme not a mapping",
			format: FormatYAML,
			data:   "theme: [a]\n",
			field:  "theme",
			line:   1,
		},
		{
			name:   "extend not a mapping",
			format: FormatYAML,
			data:   "theme:\n  extend: 3\n",
			field:  "theme.extend",
			line:   2,
		},
		{
			name:   "scale not a mapping",
			format: FormatYAML,
			data:   "theme:\n  extend:\n    brightness: [1, 2]\n",
			field:  "theme.extend.brightness",
			line:   3,
		},
		{
			name:   "non-scalar value",
			format: FormatYAML,
			data:   "theme:\n  extend:\n    brightness:\n      25: {x: 1}\n",
			field:  "theme.extend.brightness.25",
			line:   4,
		},
		{
			name:   "null value",
			format: FormatYAML,
			data:   "theme:\n  extend:\n    brightness:\n      25: ~\n",
			field:  "theme.extend.brightness.25",
			line:   4,
		},
		{
			name:   "document not a mapping",
			format: FormatYAML,
			data:   "- a\n- b\n",
			line:   1,
		},
		{
			name:   "toml array of tables",
			format: FormatTOML,
			data:   "[[content]]\nglob = \"x\"\n",
			line:   1,
		},
		{
			name:   "toml non-scalar value",
			format: FormatTOML,
			data:   "[theme.extend.brightness]\n25 = [1]\n",
			field:  "theme.extend.brightness.25",
			line:   2,
		},
		{
			name:   "toml key redefined as table",
			format: FormatTOML,
			data:   "theme = \"x\"\n[theme.extend]\n",
			line:   2,
		},
		{
			name:   "unknown format",
			format: "json",
			data:   "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data), tt.format, ".")
			assert.Nil(t, cfg)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "want *ConfigError, got %T: %v", err, err)
			assert.Equal(t, tt.field, cerr.Field)
			assert.Equal(t, tt.line, cerr.Line)
		})
	}
}

func TestParseConfigSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"yaml", FormatYAML, "content: [a\n"},
		{"toml", FormatTOML, "content = [\"a\"\n[theme\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.format, ".")
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.NotEmpty(t, cerr.Msg)
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	tests := []struct {
		err  ConfigError
		want string
	}{
		{ConfigError{Msg: "no configuration"}, "config: no configuration"},
		{ConfigError{Path: "tailgen.config.yaml", Line: 4, Field: "theme.extend", Msg: "must be a mapping"}, "config tailgen.config.yaml:4: theme.extend: must be a mapping"},
		{ConfigError{Line: 2, Field: "content", Msg: "bad"}, "config line 2: content: bad"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailgen.config.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))

	found, ok := FindConfig(dir)
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := LoadConfig(found)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Len(t, cfg.Content, 3)
}

func TestLoadConfigSetsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailgen.config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content: 3\n"), 0o644))

	_, err := LoadConfig(path)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, path, cerr.Path)
	assert.Contains(t, err.Error(), path+":1: content:")

	_, err = LoadConfig(filepath.Join(dir, "tailgen.json"))
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Msg, "unsupported config format")
}

func TestFindConfigMissing(t *testing.T) {
	_, ok := FindConfig(t.TempDir())
	assert.False(t, ok)
}

func TestYAMLAnchorsAndMergeKeys(t *testing.T) {
	data := `
base: &base
  25: ".25"
theme:
  extend:
    brightness:
      <<: *base
      175: "1.75"
`
	cfg, err := ParseConfig([]byte(data), FormatYAML, ".")
	require.NoError(t, err)
	assert.Equal(t, theme.Overlay{
		{Name: "brightness", Entries: []theme.Entry{{Key: "25", Value: ".25"}, {Key: "175", Value: "1.75"}}},
	}, cfg.Extend)
}
