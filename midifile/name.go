package midifile

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// DefaultTrackName is used for tracks without a track name event.
const DefaultTrackName = "Unnamed"

// DecodeName turns the raw text of a track name event into a string that can
// be matched against instrument names. Sequencers often store names in the
// Windows code page, so text that is not valid UTF-8 is decoded as
// Windows-1252.
func DecodeName(raw string) string {
	name := raw
	if !utf8.ValidString(raw) {
		if decoded, err := charmap.Windows1252.NewDecoder().String(raw); err == nil {
			name = decoded
		}
	}
	name = strings.TrimRight(name, "\x00")
	return norm.NFC.String(strings.TrimSpace(name))
}
