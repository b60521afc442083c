package bookmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry represents a single bookmark in the YAML
type Entry struct {
	Abbr        string   `yaml:"abbr"`
	Href        string   `yaml:"href"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// EntryList accepts both `name: {href: ...}` and the Homepage style
// `name: [{href: ...}]`.
type EntryList []Entry

func (l *EntryList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var e Entry
		if err := node.Decode(&e); err != nil {
			return err
		}
		*l = EntryList{e}
		return nil
	case yaml.SequenceNode:
		var list []Entry
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: bookmark must be a mapping or a list", node.Line)
	}
}

// Group maps a group name to its named bookmarks.
// The YAML structure is: - GroupName: [ - BookmarkName: { href, ... } ]
type Group map[string][]map[string]EntryList

// Config is the root structure of the bookmark file
type Config []Group
