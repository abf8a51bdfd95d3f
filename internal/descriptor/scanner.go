package descriptor

import (
	"bufio"
	"io"
	"strings"
)

// state is the section of the descriptor the scanner is currently in
type state int

const (
	outside state = iota
	inProperties
	inDependencies
	inManagement
	inManagedDependencies
)

// Result holds what was extracted from one descriptor
type Result struct {
	// Properties declared in <properties>, used for ${name} substitution
	Properties map[string]string

	// Dependencies is the text of every <dependencies> and <dependencyManagement>
	// block in document order, one leading tab stripped and other tabs expanded
	Dependencies string
}

// Scan reads a descriptor line by line. Lines may be of any length.
func Scan(r io.Reader) (*Result, error) {
	var lines []string

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" || err == nil {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return ScanLines(lines), nil
}

// ScanLines extracts properties and dependency blocks from descriptor lines
func ScanLines(lines []string) *Result {
	props := make(map[string]string)
	var deps strings.Builder
	st := outside

	for _, line := range lines {
		startTag := false

		switch {
		case strings.Contains(line, "<properties>"):
			if st == outside {
				st = inProperties
				startTag = true
			}
		case strings.Contains(line, "</properties>"):
			if st == inProperties {
				st = outside
			}
		case strings.Contains(line, "<dependencies>"):
			switch st {
			case outside:
				st = inDependencies
			case inManagement:
				st = inManagedDependencies
			}
		case strings.Contains(line, "<dependencyManagement>"):
			if st == outside {
				st = inManagement
			}
		}

		if st == inProperties && !startTag {
			if name, value, ok := parseProperty(line); ok {
				props[name] = value
			} else if name != "" {
				delete(props, name)
			}
		}

		// <properties>...</properties> on a single line
		if startTag && strings.Contains(line, "</properties>") {
			st = outside
		}

		if st == inDependencies || st == inManagedDependencies {
			line = substitute(line, props)
		}

		if st != outside && st != inProperties {
			deps.WriteString(normalizeIndent(line))
			deps.WriteString("\n")
		}

		switch {
		case strings.Contains(line, "</dependencies>"):
			switch st {
			case inDependencies:
				st = outside
			case inManagedDependencies:
				st = inManagement
			}
		case strings.Contains(line, "</dependencyManagement>"):
			if st == inManagement {
				st = outside
			}
		}
	}

	return &Result{
		Properties:   props,
		Dependencies: deps.String(),
	}
}

// parseProperty returns the first two non-empty tokens of a trimmed line split on < > /
func parseProperty(line string) (name, value string, ok bool) {
	tokens := strings.FieldsFunc(strings.TrimSpace(line), func(r rune) bool {
		return r == '<' || r == '>' || r == '/'
	})

	switch len(tokens) {
	case 0:
		return "", "", false
	case 1:
		return tokens[0], "", false
	default:
		return tokens[0], tokens[1], true
	}
}

// substitute replaces the first ${name} expression when name is a known property
func substitute(line string, props map[string]string) string {
	start, end, ok := expression(line)
	if !ok {
		return line
	}

	value, found := props[line[start+2:end]]
	if !found {
		return line
	}

	return line[:start] + value + line[end+1:]
}

// expression locates the first "${" and the "}" that closes it
func expression(line string) (start, end int, ok bool) {
	start = strings.Index(line, "${")
	if start < 0 {
		return 0, 0, false
	}

	rel := strings.Index(line[start:], "}")
	if rel < 0 {
		return 0, 0, false
	}

	return start, start + rel, true
}

func normalizeIndent(line string) string {
	line = strings.TrimPrefix(line, "\t")
	return strings.ReplaceAll(line, "\t", "    ")
}
