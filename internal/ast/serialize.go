package ast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const indent = "  "

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Serialize renders the program as TypeScript source. Declarations are
// separated by a blank line and the output ends with a newline. The same
// program always yields the same bytes.
func Serialize(p *Program) string {
	var sb strings.Builder
	for i, decl := range p.Declarations {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeDeclaration(&sb, decl)
		sb.WriteString("\n")
	}
	return sb.String()
}

// SerializeType renders a single type expression.
func SerializeType(t Type) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeDeclaration(sb *strings.Builder, decl Declaration) {
	switch d := decl.(type) {
	case Import:
		sb.WriteString("import ")
		if d.TypeOnly {
			sb.WriteString("type ")
		}
		fmt.Fprintf(sb, "{ %s } from %s;", strings.Join(d.Names, ", "), quote(d.From))

	case TypeAlias:
		if d.Exported {
			sb.WriteString("export ")
		}
		fmt.Fprintf(sb, "type %s = ", d.Name)
		writeType(sb, d.Type)
		sb.WriteString(";")

	case Interface:
		if d.Exported {
			sb.WriteString("export ")
		}
		fmt.Fprintf(sb, "interface %s {", d.Name)
		if len(d.Properties) == 0 {
			sb.WriteString("}")
			return
		}
		sb.WriteString("\n")
		for _, prop := range d.Properties {
			writeProperty(sb, prop)
		}
		sb.WriteString("}")

	default:
		panic(fmt.Sprintf("ast: unknown declaration node %T", decl))
	}
}

func writeProperty(sb *strings.Builder, p Property) {
	if p.Comment != "" {
		writeComment(sb, p.Comment)
	}
	sb.WriteString(indent)
	sb.WriteString(PropertyName(p.Name))
	if p.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	writeType(sb, p.Type)
	sb.WriteString(";\n")
}

func writeComment(sb *strings.Builder, comment string) {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(comment, "\r\n", "\n")), "\n")
	if len(lines) == 1 {
		fmt.Fprintf(sb, "%s/** %s */\n", indent, escapeJSDoc(lines[0]))
		return
	}
	sb.WriteString(indent + "/**\n")
	for _, line := range lines {
		line = strings.TrimRight(escapeJSDoc(line), " \t")
		if line == "" {
			sb.WriteString(indent + " *\n")
			continue
		}
		fmt.Fprintf(sb, "%s * %s\n", indent, line)
	}
	sb.WriteString(indent + " */\n")
}

func escapeJSDoc(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

// PropertyName returns name unchanged when it is a valid identifier and
// single-quoted otherwise.
func PropertyName(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	return quote(name)
}

func writeType(sb *strings.Builder, t Type) {
	switch n := t.(type) {
	case Primitive:
		sb.WriteString(n.Value)

	case Literal:
		writeLiteral(sb, n)

	case Reference:
		sb.WriteString(n.Name)

	case Union:
		if len(n.Types) == 0 {
			sb.WriteString("never")
			return
		}
		for i, member := range n.Types {
			if i > 0 {
				sb.WriteString(" | ")
			}
			writeGrouped(sb, member)
		}

	case Generic:
		sb.WriteString(n.Name)
		sb.WriteString("<")
		for i, arg := range n.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, arg)
		}
		sb.WriteString(">")

	case Raw:
		sb.WriteString(n.Text)

	case Array:
		if _, raw := n.Element.(Raw); raw {
			sb.WriteString("(")
			writeType(sb, n.Element)
			sb.WriteString(")")
		} else {
			writeGrouped(sb, n.Element)
		}
		sb.WriteString("[]")

	default:
		panic(fmt.Sprintf("ast: unknown type node %T", t))
	}
}

// writeGrouped parenthesizes a union of two or more members. An empty union
// prints as never and a single member prints bare.
func writeGrouped(sb *strings.Builder, t Type) {
	if u, ok := t.(Union); ok && len(u.Types) > 1 {
		sb.WriteString("(")
		writeType(sb, t)
		sb.WriteString(")")
		return
	}
	writeType(sb, t)
}

func writeLiteral(sb *strings.Builder, l Literal) {
	switch v := l.Value.(type) {
	case string:
		sb.WriteString(quote(v))
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case int:
		sb.WriteString(strconv.Itoa(v))
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		panic(fmt.Sprintf("ast: unsupported literal value %T", l.Value))
	}
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a single-quoted string literal.
func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
