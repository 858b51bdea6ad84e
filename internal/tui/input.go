package tui

import "unicode/utf8"

// maxInputLen is the maximum number of runes allowed in a reply.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders the single-line reply input with a blinking cursor.
func renderInput(input, placeholder string, focused bool, frame int) string {
	prompt := inputPromptStyle.Render("> ")
	if !focused {
		if input == "" {
			return prompt + inputPlaceholderStyle.Render(placeholder)
		}
		return prompt + dimStyle.Render(input)
	}
	cursor := " "
	if (frame/4)%2 == 0 {
		cursor = accentStyle.Render("█")
	}
	return prompt + selectedStyle.Render(input) + cursor
}

// editQuery applies a keystroke to a "/" search query. done is set when the
// search input should lose focus; esc also clears the query.
func editQuery(query, key string) (string, bool) {
	switch key {
	case "esc":
		return "", true
	case "enter":
		return query, true
	}
	return editRune(query, key), false
}

// searchBar renders the search input above a list, or nothing when no search
// is active.
func searchBar(query string, focused bool, frame int) string {
	if !focused && query == "" {
		return ""
	}
	return " " + renderInput(query, "search...", focused, frame) + "\n"
}
