package discover

import (
	"strings"
	"unicode"
)

// Separator joins the router and method parts of a tool name. Two characters
// so it cannot collide with the single underscores produced by snake-casing.
const Separator = "__"

// ToolName builds the protocol-level tool name for a router/method pair.
func ToolName(routerName, methodName string) string {
	return routerName + Separator + methodName
}

// snake converts a Go identifier to snake_case, keeping acronym runs
// together: "ListChats" → "list_chats", "APIKeys" → "api_keys".
func snake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) && runes[i-1] != '_' {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
