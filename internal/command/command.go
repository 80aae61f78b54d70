// Package command groups commands into families by the handle they are
// dispatched through.
package command

import (
	"github.com/griffnb/vkwrap/internal/resolver"
	"github.com/griffnb/vkwrap/internal/schema"
)

const (
	// BootstrapCommand loads every other command. It is emitted on its own.
	BootstrapCommand = "vkGetInstanceProcAddr"
	// DeviceProcAddrCommand is loaded through the instance even though its
	// first parameter is a device.
	DeviceProcAddrCommand = "vkGetDeviceProcAddr"
	// LoaderFamily holds the commands not dispatched through a handle.
	LoaderFamily = "Loader"
	// InstanceFamily is the family of the top-level handle.
	InstanceFamily = "Instance"
)

// Family is the ordered list of commands loaded through one handle.
type Family struct {
	Name     string
	Commands []schema.Command
}

// Result is the outcome of grouping.
type Result struct {
	// Families in first-seen order. The Loader family is always present.
	Families []Family
	// Bootstrap is nil when the schema does not declare BootstrapCommand.
	Bootstrap *schema.Command
	// Unresolved lists command aliases whose target is not declared.
	Unresolved []string
}

// Grouper assigns commands to families.
type Grouper struct {
	mapper  resolver.TypeMapper
	handles map[string]bool
}

// New creates a grouper. handles are the normalized handle names; the set
// is copied so later definitions do not change the grouping.
func New(mapper resolver.TypeMapper, handles []string) *Grouper {
	set := make(map[string]bool, len(handles))
	for _, h := range handles {
		set[h] = true
	}
	return &Grouper{mapper: mapper, handles: set}
}

// FamilyOf returns the family key of a command.
func (g *Grouper) FamilyOf(c schema.Command) string {
	if c.Name == DeviceProcAddrCommand {
		return InstanceFamily
	}
	if len(c.Params) == 0 {
		return LoaderFamily
	}
	key := g.mapper.MapType(c.Params[0].Type).String()
	if !g.handles[key] {
		return LoaderFamily
	}
	return key
}

// Group splits commands into families, keeping document order inside each
// family. Aliased commands take the prototype of their target.
func (g *Grouper) Group(commands []schema.Command) Result {
	var res Result

	byName := make(map[string]schema.Command, len(commands))
	for _, c := range commands {
		if c.Alias == "" {
			byName[c.Name] = c
		}
	}

	positions := make(map[string]int)
	for _, c := range commands {
		if c.Alias != "" {
			target, ok := byName[c.Alias]
			if !ok {
				res.Unresolved = append(res.Unresolved, c.Name)
				continue
			}
			target.Name, target.Alias = c.Name, c.Alias
			target.Return.Name = c.Name
			c = target
		}

		if c.Name == BootstrapCommand {
			bootstrap := c
			res.Bootstrap = &bootstrap
			continue
		}

		key := g.FamilyOf(c)
		idx, ok := positions[key]
		if !ok {
			idx = len(res.Families)
			positions[key] = idx
			res.Families = append(res.Families, Family{Name: key})
		}
		res.Families[idx].Commands = append(res.Families[idx].Commands, c)
	}

	if _, ok := positions[LoaderFamily]; !ok {
		res.Families = append(res.Families, Family{Name: LoaderFamily})
	}

	return res
}
