package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yoockh/jaanekhana/internal/locales"
	"github.com/yoockh/jaanekhana/internal/models"
)

var (
	listMarker   = regexp.MustCompile(`(?m)^[ \t]*(?:[-*•+]|\d+[.)])[ \t]+`)
	headingMark  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	quoteMark    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	markupChars  = strings.NewReplacer("*", "", "_", "", "`", "", "~", "", "[", "", "]", "", "|", "")
	spaceRuns    = regexp.MustCompile(`[ \t]{2,}`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// Speakable strips markup that a voice would read aloud or that would break
// Markdown rendering in chat.
func Speakable(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = headingMark.ReplaceAllString(s, "")
	s = quoteMark.ReplaceAllString(s, "")
	s = listMarker.ReplaceAllString(s, "")
	s = markupChars.Replace(s)
	s = spaceRuns.ReplaceAllString(s, " ")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// RenderClaims formats reportable claims, or the fixed "nothing misleading"
// sentence when there are none.
func RenderClaims(claims []models.Claim, lang models.Language) string {
	if len(claims) == 0 {
		return locales.T(lang, locales.NoMisleading)
	}
	var b strings.Builder
	for i, c := range claims {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, Speakable(c.Claim), c.Verdict)
		if e := Speakable(c.Explanation); e != "" {
			b.WriteString(": ")
			b.WriteString(e)
		}
	}
	return b.String()
}
