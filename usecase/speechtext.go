package usecase

import (
	"regexp"
	"strings"
)

var (
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe   = regexp.MustCompile(`\*(.*?)\*`)
	codeRe     = regexp.MustCompile("`(.*?)`")
	linkRe     = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	sentenceRe = regexp.MustCompile(`([.!?])\s+`)
	clauseRe   = regexp.MustCompile(`([,;:])\s+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// collapseRepeatedPunct reduces a run of the same punctuation mark to a
// single occurrence ("!!!" becomes "!"). Runs of different marks ("?!")
// are left alone. RE2 has no backreferences, so this is a plain loop.
func collapseRepeatedPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var prev rune
	for _, r := range text {
		if r == prev && strings.ContainsRune(";!?.", r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// cleanTextForTTS strips punctuation that should not be read aloud and
// normalizes spacing so the synthesized speech flows naturally.
func cleanTextForTTS(text string) string {
	if text == "" {
		return text
	}

	replacer := strings.NewReplacer(
		"*", "",
		"`", "",
		"_", " ",
		"|", " ",
		"\\", " ",
		"/", " ",
	)
	text = replacer.Replace(text)

	text = collapseRepeatedPunct(text)
	text = sentenceRe.ReplaceAllString(text, "$1... ")
	text = clauseRe.ReplaceAllString(text, "$1 ")
	text = spaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// ProcessResponseForSpeech prepares an assistant reply for synthesis:
// markdown formatting is flattened to plain text, then punctuation is
// cleaned for natural pacing.
func ProcessResponseForSpeech(text string) string {
	if text == "" {
		return text
	}

	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")

	return cleanTextForTTS(text)
}
