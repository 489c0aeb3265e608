package tailgen

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/yacobolo/tailgen/internal/theme"
)

// Config is a project configuration: what to scan and how to extend the theme
type Config struct {
	Root    string           // directory relative content patterns resolve against
	Content []ContentPattern // in declaration order
	Extend  theme.Overlay    // theme.extend, in declaration order
	Plugins []string         // opaque, passed through to the build result
}

// ContentPattern is one entry of the content list. Globs are relative to
// Config.Root and may not leave it.
type ContentPattern struct {
	Glob    string // doublestar pattern: "src/**/*.html"
	Negated bool   // "!vendor/**" excludes matching files
}

// String returns the pattern as written in the configuration.
func (p ContentPattern) String() string {
	if p.Negated {
		return "!" + p.Glob
	}
	return p.Glob
}

// Theme returns the base theme with the configuration's extensions applied.
func (c *Config) Theme() *theme.Theme {
	return theme.Resolve(theme.Base(), c.Extend)
}

// ConfigError reports a malformed configuration. It is always fatal and
// raised before any file is scanned.
type ConfigError struct {
	Path  string // config file, empty for in-memory configs
	Field string // "theme.extend.brightness"
	Line  int    // 0 when unknown
	Msg   string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// Config file formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// DefaultConfigFiles are probed in order when no config path is given
var DefaultConfigFiles = []string{"tailgen.config.yaml", "tailgen.config.yml", "tailgen.config.toml"}

// FindConfig returns the first default config file present in dir.
func FindConfig(dir string) (string, bool) {
	for _, name := range DefaultConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadConfig reads a YAML or TOML config file. Content patterns resolve
// against the file's directory.
func LoadConfig(path string) (*Config, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: err.Error()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ParseConfig(data, format, filepath.Dir(path))
	if err != nil {
		if cerr, ok := err.(*ConfigError); ok {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// ParseConfig decodes config data in the given format.
func ParseConfig(data []byte, format, root string) (*Config, error) {
	var (
		doc *node
		err error
	)

	switch format {
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatTOML:
		doc, err = parseTOML(data)
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unsupported config format %q", format)}
	}
	if err != nil {
		return nil, err
	}

	return decodeConfig(doc, root)
}

// NewContentPatterns builds patterns from raw glob strings. A leading "!"
// marks an exclusion.
func NewContentPatterns(globs ...string) ([]ContentPattern, error) {
	patterns := make([]ContentPattern, 0, len(globs))
	for i, g := range globs {
		p, err := newContentPattern(g)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("content[%d]", i), Msg: err.Error()}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func newContentPattern(glob string) (ContentPattern, error) {
	p := ContentPattern{Glob: strings.TrimSpace(glob)}
	if strings.HasPrefix(p.Glob, "!") {
		p.Negated = true
		p.Glob = strings.TrimPrefix(p.Glob, "!")
	}
	p.Glob = strings.TrimPrefix(filepath.ToSlash(p.Glob), "./")

	if p.Glob == "" {
		return p, fmt.Errorf("empty pattern")
	}
	if !doublestar.ValidatePattern(p.Glob) {
		return p, fmt.Errorf("invalid glob %q", glob)
	}
	if path.IsAbs(p.Glob) || filepath.IsAbs(p.Glob) {
		return p, fmt.Errorf("glob %q must be relative to the project root", glob)
	}
	for _, seg := range strings.Split(p.Glob, "/") {
		if seg == ".." {
			return p, fmt.Errorf("glob %q leaves the project root", glob)
		}
	}
	return p, nil
}

// node is a format-neutral, ordered view of a config document
type node struct {
	kind   nodeKind
	scalar string
	items  []*node
	fields []field
	line   int
	null   bool
}

type field struct {
	key   string
	value *node
	line  int
}

type nodeKind int

const (
	scalarNode nodeKind = iota
	listNode
	mapNode
)

func (k nodeKind) String() string {
	switch k {
	case listNode:
		return "a list"
	case mapNode:
		return "a mapping"
	default:
		return "a scalar"
	}
}

// get returns the last value for key, matching how both formats resolve
// duplicates.
func (n *node) get(key string) (*node, bool) {
	for i := len(n.fields) - 1; i >= 0; i-- {
		if n.fields[i].key == key {
			return n.fields[i].value, true
		}
	}
	return nil, false
}

func decodeConfig(doc *node, root string) (*Config, error) {
	cfg := &Config{Root: root}
	if doc == nil {
		return cfg, nil
	}
	if doc.kind != mapNode {
		return nil, &ConfigError{Line: doc.line, Msg: "document must be a mapping, got " + doc.kind.String()}
	}

	if content, ok := doc.get("content"); ok && !content.null {
		globs, err := stringList(content, "content")
		if err != nil {
			return nil, err
		}
		for i, g := range globs {
			p, err := newContentPattern(g)
			if err != nil {
				line := content.line
				if i < len(content.items) {
					line = content.items[i].line
				}
				return nil, &ConfigError{Field: fmt.Sprintf("content[%d]", i), Line: line, Msg: err.Error()}
			}
			cfg.Content = append(cfg.Content, p)
		}
	}

	if th, ok := doc.get("theme"); ok && !th.null {
		if th.kind != mapNode {
			return nil, &ConfigError{Field: "theme", Line: th.line, Msg: "must be a mapping, got " + th.kind.String()}
		}
		overlay, err := decodeExtend(th)
		if err != nil {
			return nil, err
		}
		cfg.Extend = overlay
	}

	if plugins, ok := doc.get("plugins"); ok && !plugins.null {
		list, err := stringList(plugins, "plugins")
		if err != nil {
			return nil, err
		}
		cfg.Plugins = list
	}

	return cfg, nil
}

// decodeExtend reads theme.extend, keeping scale and key order. Repeated
// scale sections are kept as separate overlays so later keys win.
func decodeExtend(th *node) (theme.Overlay, error) {
	var overlay theme.Overlay

	for _, f := range th.fields {
		if f.key != "extend" || f.value.null {
			continue
		}
		ext := f.value
		if ext.kind != mapNode {
			return nil, &ConfigError{Field: "theme.extend", Line: ext.line, Msg: "must be a mapping, got " + ext.kind.String()}
		}

		for _, sf := range ext.fields {
			name := "theme.extend." + sf.key
			scale := sf.value
			if scale.null {
				continue
			}
			if scale.kind != mapNode {
				return nil, &ConfigError{Field: name, Line: scale.line, Msg: "must be a mapping, got " + scale.kind.String()}
			}

			so := theme.ScaleOverlay{Name: sf.key}
			for _, ef := range scale.fields {
				if ef.value.kind != scalarNode || ef.value.null {
					return nil, &ConfigError{
						Field: name + "." + ef.key,
						Line:  ef.line,
						Msg:   "value must be a string, got " + describe(ef.value),
					}
				}
				so.Entries = append(so.Entries, theme.Entry{Key: ef.key, Value: ef.value.scalar})
			}
			overlay = append(overlay, so)
		}
	}

	return overlay, nil
}

func stringList(n *node, name string) ([]string, error) {
	if n.kind != listNode {
		return nil, &ConfigError{Field: name, Line: n.line, Msg: "must be a list of strings, got " + n.kind.String()}
	}
	out := make([]string, 0, len(n.items))
	for i, item := range n.items {
		if item.kind != scalarNode || item.null {
			return nil, &ConfigError{
				Field: fmt.Sprintf("%s[%d]", name, i),
				Line:  item.line,
				Msg:   "must be a string, got " + describe(item),
			}
		}
		out = append(out, item.scalar)
	}
	return out, nil
}

func describe(n *node) string {
	if n.null {
		return "null"
	}
	return n.kind.String()
}

// parseYAML decodes into yaml.v3 nodes rather than maps so key order survives.
func parseYAML(data []byte) (*node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Msg: err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// empty document
		return nil, nil
	}
	return convertYAML(doc.Content[0])
}

func convertYAML(y *yaml.Node) (*node, error) {
	if y.Kind == yaml.AliasNode && y.Alias != nil {
		return convertYAML(y.Alias)
	}

	n := &node{line: y.Line}
	switch y.Kind {
	case yaml.ScalarNode:
		n.kind = scalarNode
		n.scalar = y.Value
		n.null = y.Tag == "!!null"
	case yaml.SequenceNode:
		n.kind = listNode
		for _, c := range y.Content {
			item, err := convertYAML(c)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
	case yaml.MappingNode:
		n.kind = mapNode
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &ConfigError{Line: k.Line, Msg: "mapping keys must be scalars"}
			}
			value, err := convertYAML(v)
			if err != nil {
				return nil, err
			}
			if k.Tag == "!!merge" {
				if value.kind == mapNode {
					n.fields = append(n.fields, value.fields...)
				}
				continue
			}
			n.fields = append(n.fields, field{key: k.Value, value: value, line: k.Line})
		}
	default:
		return nil, &ConfigError{Line: y.Line, Msg: "unsupported YAML node"}
	}
	return n, nil
}
