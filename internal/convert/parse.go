package convert

import "strings"

// ParseLines splits a free-text reply into messages: one per line, trimmed,
// blank lines dropped. Nothing else about the reply is interpreted.
func ParseLines(reply string) []string {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
