package openapi

import "go.yaml.in/yaml/v4"

// DefaultInfoVersion is the info.version emitted when none is configured.
const DefaultInfoVersion = "1.0.0"

// Info is the document's info object.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version" json:"version"`
}

// DefaultInfo returns an Info with an empty title and description and
// version DefaultInfoVersion.
func DefaultInfo() Info {
	return Info{Version: DefaultInfoVersion}
}

func (i Info) node() *yaml.Node {
	m := newMapping()
	appendPair(m, "title", strNode(i.Title))
	appendPair(m, "description", strNode(i.Description))
	version := i.Version
	if version == "" {
		version = DefaultInfoVersion
	}
	appendPair(m, "version", strNode(version))
	return m
}
