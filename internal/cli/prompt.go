package cli

import (
	"fmt"
	"strings"
)

const maxPromptLabelLen = 30

// BuildPrompt generates the prompt string.
// Format: handycmd:label> , or an indented continuation prompt mid-statement.
func BuildPrompt(label string, continuing, color bool) string {
	label = truncatePath(label, maxPromptLabelLen)
	text := fmt.Sprintf("handycmd:%s> ", label)
	if continuing {
		text = strings.Repeat(" ", len(text)-5) + "...> "
	}
	if color {
		return "\033[32m" + text + "\033[0m"
	}
	return text
}

// truncatePath shortens a path if it exceeds maxLen.
// e.g., /very/long/nested/path → /.../nested/path
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}

	suffix := parts[len(parts)-2] + "/" + parts[len(parts)-1]
	truncated := "/.../" + suffix
	if len(truncated) <= maxLen {
		return truncated
	}

	return "/.../" + parts[len(parts)-1]
}
