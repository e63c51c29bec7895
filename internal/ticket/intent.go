package ticket

import (
	"regexp"
	"strings"
)

var intentKeywords = []string{
	"ticket", "ticket id", "helpdesk", "service desk", "hr help",
	"hr ticket", "it ticket", "my ticket", "mytickets", "support ticket",
}

var (
	intentRe  = regexp.MustCompile(`(?i)(?:INC|SR|TCK|REQ|CASE|IT|HR)[-_]?\d{3,}|\b\d{4,}\b`)
	prefixIDs = regexp.MustCompile(`(?i)(?:INC|SR|TCK|REQ|CASE|IT|HR)[-_]?(\d{3,})`)
	bareIDs   = regexp.MustCompile(`\b(\d{4,})\b`)
	raiseRe   = regexp.MustCompile(`(?i)^\s*raise (?:a )?ticket\b[:\s-]*(.*)$`)
)

// DetectIntent reports whether a chat message is about helpdesk tickets.
func DetectIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range intentKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return intentRe.MatchString(text)
}

// ExtractID pulls a ticket number out of free text, preferring prefixed
// references like "INC-12345" over bare numbers. Empty when none found.
func ExtractID(text string) string {
	if m := prefixIDs.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareIDs.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ParseRaise recognises "raise a ticket <issue>". ok is false when the
// message is not a raise command; issue may be empty.
func ParseRaise(text string) (issue string, ok bool) {
	m := raiseRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
