// Package msgcat renders the short notices shown next to the board.
package msgcat

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"golang.org/x/exp/slices"
	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml
var defaultFiles embed.FS

// Catalog maps flattened dot keys ("status.check") to template text.
type Catalog struct {
	data map[string]string
}

func New() (*Catalog, error) {
	raw, err := fs.ReadFile(defaultFiles, "messages.en.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded messages: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from yaml bytes.
func Parse(raw []byte) (*Catalog, error) {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	c := &Catalog{data: make(map[string]string)}
	c.flatten("", m)
	return c, nil
}

func (c *Catalog) flatten(prefix string, node map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			c.flatten(key, val)
		case string:
			c.data[key] = val
		default:
			c.data[key] = fmt.Sprint(val)
		}
	}
}

func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Render executes the template under key. Missing data fields are errors.
func (c *Catalog) Render(key string, data any) (string, error) {
	text, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("message %q not found", key)
	}
	tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse message %q: %w", key, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render message %q: %w", key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// MustRender falls back to the key itself when rendering fails.
func (c *Catalog) MustRender(key string, data any) string {
	s, err := c.Render(key, data)
	if err != nil {
		return key
	}
	return s
}
