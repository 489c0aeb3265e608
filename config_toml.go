package tailgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// parseTOML walks the document expression by expression with the unstable
// parser, which, unlike unmarshaling into maps, preserves key order.
func parseTOML(data []byte) (*node, error) {
	p := &unstable.Parser{}
	p.Reset(data)

	root := &node{kind: mapNode, line: 1}
	current := root

	for p.NextExpression() {
		expr := p.Expression()

		switch expr.Kind {
		case unstable.Table:
			keys, line := tomlKey(p, expr.Key())
			table, err := walkTable(root, keys, line)
			if err != nil {
				return nil, err
			}
			current = table

		case unstable.ArrayTable:
			_, line := tomlKey(p, expr.Key())
			return nil, &ConfigError{Line: line, Msg: "arrays of tables are not supported"}

		case unstable.KeyValue:
			if err := setKeyValue(p, current, expr); err != nil {
				return nil, err
			}
		}
	}

	if err := p.Error(); err != nil {
		cerr := &ConfigError{Msg: err.Error()}
		var perr *unstable.ParserError
		if errors.As(err, &perr) && len(perr.Highlight) > 0 {
			cerr.Line = p.Shape(p.Range(perr.Highlight)).Start.Line
		}
		return nil, cerr
	}

	return root, nil
}

func tomlKey(p *unstable.Parser, it unstable.Iterator) ([]string, int) {
	var (
		keys []string
		line int
	)
	for it.Next() {
		k := it.Node()
		if line == 0 {
			line = p.Shape(k.Raw).Start.Line
		}
		keys = append(keys, string(k.Data))
	}
	return keys, line
}

// walkTable returns the mapping at keys, creating intermediate tables.
func walkTable(root *node, keys []string, line int) (*node, error) {
	n := root
	for i, k := range keys {
		child, ok := n.get(k)
		if !ok {
			child = &node{kind: mapNode, line: line}
			n.fields = append(n.fields, field{key: k, value: child, line: line})
		} else if child.kind != mapNode {
			return nil, &ConfigError{
				Line: line,
				Msg:  fmt.Sprintf("key %q is %s, not a table", strings.Join(keys[:i+1], "."), child.kind),
			}
		}
		n = child
	}
	return n, nil
}

func setKeyValue(p *unstable.Parser, table *node, expr *unstable.Node) error {
	keys, line := tomlKey(p, expr.Key())
	if len(keys) == 0 {
		return nil
	}

	parent, err := walkTable(table, keys[:len(keys)-1], line)
	if err != nil {
		return err
	}

	value, err := convertTOML(p, expr.Value(), line)
	if err != nil {
		return err
	}
	parent.fields = append(parent.fields, field{key: keys[len(keys)-1], value: value, line: line})
	return nil
}

func convertTOML(p *unstable.Parser, v *unstable.Node, line int) (*node, error) {
	n := &node{line: line}

	switch v.Kind {
	case unstable.Array:
		n.kind = listNode
		it := v.Children()
		for it.Next() {
			item, err := convertTOML(p, it.Node(), line)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}

	case unstable.InlineTable:
		n.kind = mapNode
		it := v.Children()
		for it.Next() {
			if err := setKeyValue(p, n, it.Node()); err != nil {
				return nil, err
			}
		}

	default:
		// strings, numbers, booleans and dates are kept as written
		n.kind = scalarNode
		n.scalar = string(v.Data)
	}

	return n, nil
}
