package compiler

import (
	"regexp"
	"strings"
)

var (
	answerLinePattern = regexp.MustCompile(`(?i)answer\s*is\s*:\s*(.+)`)
	tokenSeparator    = regexp.MustCompile(`\s*[;|]+\s*`)
)

// ParseNotes finds the first "Answer is: ..." line of the notes and splits it into tokens.
// The explanation is the first non-empty line after it.
// Tokens are unique and keep the order they were written in.
func ParseNotes(notes string) (tokens []string, explanation string) {
	lines := strings.Split(strings.ReplaceAll(notes, "\r\n", "\n"), "\n")

	answerLine := -1
	rest := ""
	for i, line := range lines {
		if m := answerLinePattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			answerLine = i
			rest = strings.TrimSpace(m[1])
			break
		}
	}
	if answerLine < 0 {
		return nil, ""
	}

	for _, line := range lines[answerLine+1:] {
		if line = strings.TrimSpace(line); line != "" {
			explanation = line
			break
		}
	}

	seen := make(map[string]bool)
	for _, piece := range tokenSeparator.Split(rest, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" || seen[piece] {
			continue
		}
		seen[piece] = true
		tokens = append(tokens, piece)
	}
	return tokens, explanation
}
