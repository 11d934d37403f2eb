package htmldom

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// declaration is one property: value pair of an inline style attribute.
type declaration struct {
	name  string
	value string
}

// parseDeclarations reads an inline style attribute into declarations, keeping the
// authored order. A repeated property keeps its first position and last value.
func parseDeclarations(attr string) []declaration {
	var decls []declaration
	if strings.TrimSpace(attr) == "" {
		return decls
	}

	parser := css.NewParser(parse.NewInputString(attr), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			// EOF or unrecoverable input, keep what was read
			return decls
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			name := string(data)
			if gt == css.DeclarationGrammar {
				name = strings.ToLower(name)
			}
			value := joinTokens(parser.Values())
			if value == "" {
				continue
			}
			decls = setDeclaration(decls, name, value)
		}
	}
}

// joinTokens rebuilds a value from parser tokens. Whitespace runs collapse into a
// single space, commas are followed by exactly one space and parentheses hug their
// contents.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	pendingSpace := false
	last := css.ErrorToken
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			opensGroup := last == css.FunctionToken || last == css.LeftParenthesisToken
			pendingSpace = b.Len() > 0 && !opensGroup
			continue
		case css.CommaToken, css.RightParenthesisToken:
			pendingSpace = false
		}
		if pendingSpace {
			b.WriteByte(' ')
		}
		b.Write(t.Data)

		last = t.TokenType
		pendingSpace = last == css.CommaToken
	}
	return b.String()
}

// setDeclaration updates name in place or appends it. An empty value removes it.
func setDeclaration(decls []declaration, name, value string) []declaration {
	for i, d := range decls {
		if d.name != name {
			continue
		}
		if value == "" {
			return append(decls[:i], decls[i+1:]...)
		}
		decls[i].value = value
		return decls
	}
	if value == "" {
		return decls
	}
	return append(decls, declaration{name: name, value: value})
}

// lookupDeclaration returns the value of name, "" when absent.
func lookupDeclaration(decls []declaration, name string) string {
	for _, d := range decls {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// formatDeclarations renders declarations back into attribute form.
func formatDeclarations(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.name + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

var vendorPrefixes = []string{"webkit", "moz", "ms"}

// PropertyName maps a script style identifier (fontSize, webkitTextStroke) to its
// CSS property name (font-size, -webkit-text-stroke). Names already in CSS form are
// returned lowercased.
func PropertyName(id string) string {
	if strings.Contains(id, "-") {
		return strings.ToLower(id)
	}
	if id == "cssFloat" {
		return "float"
	}

	var b strings.Builder
	for _, prefix := range vendorPrefixes {
		rest, ok := strings.CutPrefix(id, prefix)
		if ok && rest != "" && unicode.IsUpper(rune(rest[0])) {
			b.WriteByte('-')
			break
		}
	}

	for _, r := range id {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parsePixels reads a unitless or px length. Other units carry no pixel size.
func parsePixels(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatPixels renders v as a px length.
func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
