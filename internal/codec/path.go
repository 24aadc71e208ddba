package codec

import (
	"strconv"
	"strings"
)

// fieldPath turns a schema instance location (a JSON Pointer such as
// "#/activities/0/progress") into the path form used in ValidationError,
// "activities[0].progress".
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(strings.TrimPrefix(pointer, "#"), "/")
	if pointer == "" {
		return ""
	}

	var b strings.Builder
	for _, token := range strings.Split(pointer, "/") {
		// ~1 and ~0 escape "/" and "~"
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch {
		case token == "":
		case isIndex(token):
			b.WriteString("[" + token + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(token)
		}
	}
	return b.String()
}

func isIndex(token string) bool {
	n, err := strconv.Atoi(token)
	return err == nil && n >= 0 && strconv.Itoa(n) == token
}
