// Package seed loads fixture documents and writes them into a repository.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Document is the root of a fixture file.
type Document struct {
	Users    []User    `toml:"users" yaml:"users" json:"users"`
	Projects []Project `toml:"projects" yaml:"projects" json:"projects"`
	Tickets  []Ticket  `toml:"tickets" yaml:"tickets" json:"tickets"`
}

// User is a fixture account. Password is stored hashed.
type User struct {
	Email    string `toml:"email" yaml:"email" json:"email"`
	Username string `toml:"username" yaml:"username" json:"username"`
	Password string `toml:"password" yaml:"password" json:"password"`
	Role     string `toml:"role,omitempty" yaml:"role,omitempty" json:"role,omitempty"`
	Inactive bool   `toml:"inactive,omitempty" yaml:"inactive,omitempty" json:"inactive,omitempty"`
}

// Project is a fixture project, owned by the user with Owner as email.
type Project struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Owner       string `toml:"owner" yaml:"owner" json:"owner"`
}

// Ticket is a fixture ticket. Project refers to a project name, Author and
// Assignee to user emails.
type Ticket struct {
	Project     string         `toml:"project" yaml:"project" json:"project"`
	Author      string         `toml:"author" yaml:"author" json:"author"`
	Assignee    string         `toml:"assignee,omitempty" yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Title       string         `toml:"title" yaml:"title" json:"title"`
	Description string         `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Priority    string         `toml:"priority,omitempty" yaml:"priority,omitempty" json:"priority,omitempty"`
	Status      string         `toml:"status,omitempty" yaml:"status,omitempty" json:"status,omitempty"`
	Metadata    map[string]any `toml:"metadata,omitempty" yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Comments    []Comment      `toml:"comments,omitempty" yaml:"comments,omitempty" json:"comments,omitempty"`
}

// Comment is a fixture comment by the user with Author as email.
type Comment struct {
	Author string `toml:"author" yaml:"author" json:"author"`
	Body   string `toml:"body" yaml:"body" json:"body"`
}

// ErrUnknownFormat is returned for files whose extension is not supported.
var ErrUnknownFormat = errors.New("unknown seed format")

// Format names a fixture encoding.
type Format string

const (
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// FormatOf picks the format from a file extension. Plain .json files are
// read as JSONC.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(data), &doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s seed: %w", format, err)
	}
	return &doc, nil
}

// ReadFile reads and decodes a fixture file.
func ReadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
