package output

import "strings"

type pathAliasSpec struct {
	Canonical string
	Aliases   []string
}

// pathAliasSpecs defines shorthand aliases for common JSON path keys used with
// --query/--jq, --fields/--pick, --jsonpath, and --sort-by.
//
// Aliases are intentionally lowercase. We only rewrite lowercase dot-path
// segments so mixed-case keys are left untouched.
var pathAliasSpecs = []pathAliasSpec{
	{Canonical: "results", Aliases: []string{"rs"}},
	{Canonical: "_meta", Aliases: []string{"meta"}},
	{Canonical: "created_at", Aliases: []string{"ca"}},
	{Canonical: "updated_at", Aliases: []string{"ua"}},
	{Canonical: "display_name", Aliases: []string{"dn"}},
	{Canonical: "avatar_url", Aliases: []string{"au"}},
	{Canonical: "description", Aliases: []string{"de"}},
	{Canonical: "state", Aliases: []string{"st"}},
	{Canonical: "priority", Aliases: []string{"pr"}},
	{Canonical: "project", Aliases: []string{"pj"}},
	{Canonical: "team", Aliases: []string{"tm"}},
	{Canonical: "creator", Aliases: []string{"cr"}},
	{Canonical: "email", Aliases: []string{"em"}},
	{Canonical: "active", Aliases: []string{"ac"}},
	{Canonical: "page_info", Aliases: []string{"pi"}},
	{Canonical: "has_next_page", Aliases: []string{"hn"}},
	{Canonical: "end_cursor", Aliases: []string{"ec"}},
	{Canonical: "default_project", Aliases: []string{"dp"}},
	{Canonical: "filter", Aliases: []string{"fi"}},
	{Canonical: "title", Aliases: []string{"ti", "t"}},
	{Canonical: "name", Aliases: []string{"nm"}},
	{Canonical: "type", Aliases: []string{"ty"}},
	{Canonical: "url", Aliases: []string{"ur"}},
}

var pathAliasLookup = buildPathAliasLookup()

func buildPathAliasLookup() map[string]string {
	out := make(map[string]string)
	for _, spec := range pathAliasSpecs {
		canonical := strings.TrimSpace(spec.Canonical)
		if canonical == "" {
			continue
		}
		for _, alias := range spec.Aliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			if existing, ok := out[alias]; ok && existing != canonical {
				panic("duplicate path alias: " + alias)
			}
			out[alias] = canonical
		}
	}
	return out
}

func canonicalizeAliasToken(token string) string {
	if token == "" {
		return token
	}
	// Keep behavior predictable: only rewrite lowercase tokens.
	if token != strings.ToLower(token) {
		return token
	}
	if canonical, ok := pathAliasLookup[token]; ok {
		return canonical
	}
	return token
}

func isAliasIdentifierStart(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z')
}

func isAliasIdentifierPart(ch byte) bool {
	return isAliasIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}

// expandDotPathAliases rewrites lowercase dot-path segments to their canonical
// names. Example: ".rs[0].st.nm" -> ".results[0].state.name".
//
// String literals and comments are preserved verbatim.
func expandDotPathAliases(expr string) (string, bool) {
	if strings.TrimSpace(expr) == "" {
		return expr, false
	}

	var b strings.Builder
	b.Grow(len(expr))

	changed := false
	inDouble := false
	inSingle := false
	escaped := false
	inComment := false

	for i := 0; i < len(expr); i++ {
		ch := expr[i]

		if inComment {
			b.WriteByte(ch)
			if ch == '\n' {
				inComment = false
			}
			continue
		}

		if inDouble {
			b.WriteByte(ch)
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				inDouble = false
			}
			continue
		}

		// jq uses only double-quoted strings, but we handle single quotes
		// defensively for non-jq contexts (JSONPath, --fields values) and
		// to guard against shell quoting edge cases.
		if inSingle {
			b.WriteByte(ch)
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '\'' {
				inSingle = false
			}
			continue
		}

		switch ch {
		case '#':
			inComment = true
			b.WriteByte(ch)
			continue
		case '"':
			inDouble = true
			b.WriteByte(ch)
			continue
		case '\'':
			inSingle = true
			b.WriteByte(ch)
			continue
		case '.':
			b.WriteByte(ch)
			if i+1 < len(expr) && isAliasIdentifierStart(expr[i+1]) {
				start := i + 1
				end := start + 1
				for end < len(expr) && isAliasIdentifierPart(expr[end]) {
					end++
				}
				ident := expr[start:end]
				canonical := canonicalizeAliasToken(ident)
				if canonical != ident {
					changed = true
				}
				b.WriteString(canonical)
				i = end - 1
				continue
			}
			continue
		}

		b.WriteByte(ch)
	}

	if !changed {
		return expr, false
	}
	return b.String(), true
}

// NormalizeSortPath rewrites dot-path aliases for --sort-by.
// Example: "ca" -> "created_at", "st.nm" -> "state.name".
func NormalizeSortPath(path string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed, false
	}

	parts := strings.Split(trimmed, ".")
	changed := false
	for i, part := range parts {
		if part == "" {
			continue
		}
		canonical := canonicalizeAliasToken(part)
		if canonical != part {
			parts[i] = canonical
			changed = true
		}
	}

	if !changed {
		return trimmed, false
	}
	return strings.Join(parts, "."), true
}
