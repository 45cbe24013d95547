package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/slackteams/tokenstore/internal/output"
)

// SchemaCmd outputs machine-readable command tree as JSON
type SchemaCmd struct {
	Command string `arg:"" optional:"" help:"Command path to show schema for (e.g., 'token get')"`
	All     bool   `help:"Include hidden commands and flags"`
}

// SchemaNode represents a node in the command tree
type SchemaNode struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"` // "application", "command", "argument"
	Help     string        `json:"help,omitempty"`
	Aliases  []string      `json:"aliases,omitempty"`
	Hidden   bool          `json:"hidden,omitempty"`
	Children []*SchemaNode `json:"commands,omitempty"`
	Flags    []*SchemaFlag `json:"flags,omitempty"`
	Args     []*SchemaArg  `json:"args,omitempty"`
}

// SchemaFlag represents a command flag
type SchemaFlag struct {
	Name     string   `json:"name"`
	Help     string   `json:"help,omitempty"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Default  string   `json:"default,omitempty"`
	Enum     []string `json:"enum,omitempty"`
	Short    string   `json:"short,omitempty"`
	Env      []string `json:"env,omitempty"`
}

// SchemaArg represents a positional argument
type SchemaArg struct {
	Name     string `json:"name"`
	Help     string `json:"help,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Run executes the schema command
func (cmd *SchemaCmd) Run(ctx *kong.Context, streams *Streams) error {
	target := ctx.Model.Node
	if cmd.Command != "" {
		var err error
		target, err = findNodeByPath(target, cmd.Command)
		if err != nil {
			return output.NewCLIError(output.ExitNotFound, err.Error())
		}
	}

	enc := json.NewEncoder(streams.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSchemaNode(target, cmd.All))
}

// buildSchemaNode recursively builds schema from a Kong node
func buildSchemaNode(node *kong.Node, all bool) *SchemaNode {
	schema := &SchemaNode{
		Name:    node.Name,
		Type:    nodeTypeString(node.Type),
		Help:    node.Help,
		Aliases: node.Aliases,
		Hidden:  node.Hidden,
	}

	for _, flag := range node.Flags {
		if flag.Name == "help" || (flag.Hidden && !all) {
			continue
		}
		schema.Flags = append(schema.Flags, buildSchemaFlag(flag))
	}

	for _, arg := range node.Positional {
		schema.Args = append(schema.Args, &SchemaArg{
			Name:     arg.Name,
			Help:     arg.Help,
			Required: arg.Required,
		})
	}

	for _, child := range node.Children {
		if child.Hidden && !all {
			continue
		}
		schema.Children = append(schema.Children, buildSchemaNode(child, all))
	}

	return schema
}

func buildSchemaFlag(flag *kong.Flag) *SchemaFlag {
	typeName := "string"
	if flag.Value != nil && flag.Value.Target.IsValid() {
		typeName = fmt.Sprintf("%T", flag.Value.Target.Interface())
	}

	sf := &SchemaFlag{
		Name:     flag.Name,
		Help:     flag.Help,
		Type:     typeName,
		Required: flag.Required,
		Default:  flag.Default,
		Env:      flag.Envs,
	}

	if flag.Short != 0 {
		sf.Short = string(flag.Short)
	}

	// Enum tags allow an empty trailing value meaning "unset"
	if flag.Enum != "" {
		for _, v := range strings.Split(flag.Enum, ",") {
			if v != "" {
				sf.Enum = append(sf.Enum, v)
			}
		}
	}

	return sf
}

// findNodeByPath walks the node tree to find a specific command path.
// Aliases match as well as names.
func findNodeByPath(root *kong.Node, path string) (*kong.Node, error) {
	current := root

	for _, part := range strings.Fields(path) {
		next := childNamed(current, part)
		if next == nil {
			return nil, fmt.Errorf("command not found: %s", path)
		}
		current = next
	}

	return current, nil
}

func childNamed(node *kong.Node, name string) *kong.Node {
	for _, child := range node.Children {
		if child.Name == name {
			return child
		}
		for _, alias := range child.Aliases {
			if alias == name {
				return child
			}
		}
	}
	return nil
}

// nodeTypeString converts Kong node type to string
func nodeTypeString(t kong.NodeType) string {
	switch t {
	case kong.ApplicationNode:
		return "application"
	case kong.CommandNode:
		return "command"
	case kong.ArgumentNode:
		return "argument"
	default:
		return "unknown"
	}
}
