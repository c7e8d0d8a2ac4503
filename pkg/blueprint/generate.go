// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"fmt"
	"strings"
)

// Generate renders declarations back into blueprint syntax, preceded by a
// short header comment. The output parses back into the same declarations
// (line numbers aside).
func Generate(decls []KeyDeclaration) []byte {
	var sb strings.Builder

	sb.WriteString("# env.spec - configuration keys this project requires.\n")
	sb.WriteString("# Syntax: KEY or KEY: type (string, integer, float, boolean).\n")
	sb.WriteString("# Text after '#' on a declaration line is kept as documentation.\n")

	if len(decls) == 0 {
		sb.WriteString("\n# EXAMPLE_KEY: string\n")
		return []byte(sb.String())
	}

	width := 0
	for _, d := range decls {
		if n := len(d.Name) + len(d.Type) + 2; n > width {
			width = n
		}
	}

	sb.WriteString("\n")
	for _, d := range decls {
		t := d.Type
		if t == "" {
			t = TypeString
		}
		decl := fmt.Sprintf("%s: %s", d.Name, t)
		if d.Doc != "" {
			sb.WriteString(fmt.Sprintf("%-*s # %s\n", width, decl, d.Doc))
		} else {
			sb.WriteString(decl + "\n")
		}
	}

	return []byte(sb.String())
}
