package model

import (
	"fmt"
	"strings"
)

// Module is one module within a course
type Module struct {
	Name    string
	Summary string
}

// Course represents one catalog entry with its modules
type Course struct {
	Name    string
	Modules []Module
}

// FormatCatalog renders courses into the prompt block shared by the
// database and collaborative agents:
//
//	**Course: <name>**
//	Modules:
//	- <module>: <summary>
func FormatCatalog(courses []*Course) string {
	var sb strings.Builder
	for _, c := range courses {
		fmt.Fprintf(&sb, "**Course: %s**\nModules:\n", c.Name)
		for _, m := range c.Modules {
			fmt.Fprintf(&sb, "- %s: %s\n", m.Name, m.Summary)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
