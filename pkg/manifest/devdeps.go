package manifest

import "strings"

// RemoveDevDeps returns text with every dev-dependency removed: the
// [dev-dependencies] and [dev-dependencies.<name>] tables, their
// [target.<cfg>.dev-dependencies] variants (with either spelling), and
// dotted keys such as `dev-dependencies.foo = "1"` in the root or a target
// table. Comments and blank lines directly above the next kept table stay
// with that table; everything else outside the removed entries is kept
// verbatim.
func RemoveDevDeps(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	b.Grow(len(text))

	var (
		table    []string // key of the current table, nil for the root table
		skipping bool     // inside a dev-dependencies table
		pending  []string // comment and blank lines seen while skipping
		depth    int      // open brackets of a removed multi-line value
	)
	for _, line := range lines {
		if depth > 0 {
			depth += bracketDepth(line)
			continue
		}
		if key, ok := tableHeader(line); ok {
			table = splitKey(key)
			wasSkipping := skipping
			skipping = isDevDepsPath(table)
			if wasSkipping && !skipping {
				flush(&b, pending)
			}
			pending = nil
			if !skipping {
				b.WriteString(line)
			}
			continue
		}
		if skipping {
			if isTrivia(line) {
				pending = append(pending, line)
			} else {
				pending = nil
			}
			continue
		}
		if key, value, ok := keyValue(line); ok && isDevDepsPath(append(table[:len(table):len(table)], splitKey(key)...)) {
			depth = bracketDepth(value)
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// flush writes the comment and blank lines that preceded a kept table,
// dropping leading blank lines when the output already ends with one.
func flush(b *strings.Builder, pending []string) {
	if strings.HasSuffix(b.String(), "\n\n") {
		for len(pending) > 0 && strings.TrimSpace(pending[0]) == "" {
			pending = pending[1:]
		}
	}
	for _, line := range pending {
		b.WriteString(line)
	}
}

func isTrivia(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, "#")
}

// tableHeader reports whether line opens a table and returns its key.
// Array-of-tables headers ([[bin]]) end the previous table too.
func tableHeader(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") {
		return "", false
	}
	if strings.HasPrefix(s, "[[") {
		end := strings.Index(s, "]]")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(s[2:end]), true
	}
	end := closingBracket(s)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(s[1:end]), true
}

// closingBracket finds the ']' closing a header, skipping quoted segments
// such as [target.'cfg(all(unix, target_arch = "x86_64"))'.dependencies].
func closingBracket(s string) int {
	var quote byte
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return i
		}
	}
	return -1
}

// keyValue splits a `key = value` line at the first unquoted '='.
func keyValue(line string) (key, value string, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" || s[0] == '#' || s[0] == '[' {
		return "", "", false
	}
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '=':
			return strings.TrimSpace(s[:i]), s[i+1:], true
		}
	}
	return "", "", false
}

// bracketDepth returns the number of '[' minus ']' in s outside strings and
// comments, so a value spanning several lines can be skipped whole.
func bracketDepth(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return depth
		case c == '[':
			depth++
		case c == ']':
			depth--
		}
	}
	return depth
}

// isDevDepsPath reports whether a full dotted key names dev-dependencies,
// either at the top level or below target.<cfg>.
func isDevDepsPath(parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	if isDevDepsKey(parts[0]) {
		return true
	}
	return parts[0] == "target" && len(parts) >= 3 && isDevDepsKey(parts[2])
}

func isDevDepsKey(k string) bool {
	return k == "dev-dependencies" || k == "dev_dependencies"
}

// splitKey splits a dotted TOML key, unquoting quoted segments.
func splitKey(key string) []string {
	var parts []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '.':
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, strings.TrimSpace(cur.String()))
}
