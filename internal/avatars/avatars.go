// Package avatars derives deterministic fallback avatars from usernames.
package avatars

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"unicode"
)

// palette holds the background colors an avatar can be assigned. The color is
// chosen by hashing the name, so the same username always renders the same.
var palette = []string{
	"#FF9C01", "#FF8E01", "#FFA001", "#7F56D9", "#2F80ED", "#27AE60", "#EB5757",
}

// URL builds the initials avatar URL served by this backend for the given name.
func URL(baseURL, name string) string {
	base := strings.TrimSuffix(baseURL, "/")
	return fmt.Sprintf("%s/api/v1/avatars/initials?name=%s", base, url.QueryEscape(name))
}

// Initials extracts up to two initials from a display name.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}

	var b strings.Builder
	for i, field := range fields {
		if i == 2 {
			break
		}
		for _, r := range field {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

// RenderSVG produces a square avatar with the name's initials on a colored
// background. The output depends only on the input name.
func RenderSVG(name string) string {
	initials := Initials(name)

	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	background := palette[h.Sum32()%uint32(len(palette))]

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 200 200">`+
		`<rect width="200" height="200" rx="100" fill="%s"/>`+
		`<text x="100" y="100" text-anchor="middle" dominant-baseline="central" `+
		`font-family="Helvetica, Arial, sans-serif" font-size="80" fill="#FFFFFF">%s</text>`+
		`</svg>`, background, escapeText(initials))
}

func escapeText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
