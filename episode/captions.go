package episode

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/util"
	"github.com/educast-cli/educast/where"
)

// fallbackCueSeconds is used per cue when the episode duration is unknown.
const fallbackCueSeconds = 5.0

// Cue is a single timed caption segment synthesized from the transcript.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

var sentenceBoundary = regexp.MustCompile(`(?m)[.!?]\s+|\n+`)

// CaptionCues synthesizes a timed caption track from the episode transcript.
// Cue timing is proportional to each sentence's share of the transcript when the
// duration is known; otherwise a fixed per-cue length is assumed.
// Returns nil when the episode has no transcript.
func (e *Episode) CaptionCues() []Cue {
	if !e.HasTranscript() {
		return nil
	}

	sentences := splitSentences(e.Transcript)
	if len(sentences) == 0 {
		return nil
	}

	var totalChars int
	for _, s := range sentences {
		totalChars += len(s)
	}

	cues := make([]Cue, 0, len(sentences))
	cursor := 0.0
	for i, s := range sentences {
		var length float64
		if e.Duration > 0 {
			length = e.Duration * float64(len(s)) / float64(totalChars)
		} else {
			length = fallbackCueSeconds
		}

		cues = append(cues, Cue{
			Index: i + 1,
			Start: cursor,
			End:   cursor + length,
			Text:  s,
		})
		cursor += length
	}

	return cues
}

func splitSentences(transcript string) []string {
	parts := sentenceBoundary.Split(transcript, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// RenderVTT serializes cues into the WebVTT format understood by mpv's --sub-file.
func RenderVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	for _, cue := range cues {
		b.WriteString(fmt.Sprintf("%d\n", cue.Index))
		b.WriteString(fmt.Sprintf("%s --> %s\n", vttTimestamp(cue.Start), vttTimestamp(cue.End)))
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}

	return b.String()
}

// CaptionFile writes the synthesized caption track to a transient .vtt file and returns its path.
// Returns an empty path (not an error) when the episode has no transcript.
func (e *Episode) CaptionFile() (string, error) {
	cues := e.CaptionCues()
	if len(cues) == 0 {
		return "", nil
	}

	path := filepath.Join(where.Temp(), util.SanitizeFilename(sanitizedTitle(e))+".vtt")
	if err := filesystem.API().WriteFile(path, []byte(RenderVTT(cues)), 0644); err != nil {
		return "", fmt.Errorf("write caption file: %w", err)
	}

	return path, nil
}

func vttTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	total := int(seconds)
	millis := int((seconds - float64(total)) * 1000)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, millis)
}
