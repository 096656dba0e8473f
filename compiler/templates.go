package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/w4on/w4on"
	"github.com/w4on/w4on/version"
)

// HeaderTemplates maps the languages the protocol table can be rendered in
// to their templates.
var HeaderTemplates = map[string]string{
	"c":  "proto.h",
	"js": "proto.js",
	"go": "proto.go.tmpl",
}

type headerData struct {
	Version  string
	Entries  []w4on.ProtoEntry
	Reserved int
}

type songData struct {
	Version string
	Name    string
	Symbol  string
	Data    []byte
	Tracks  []TrackInfo
}

// Header renders the opcode table of the protocol in the given language (c,
// js or go).
func (com *Compiler) Header(lang string) (string, error) {
	name, ok := HeaderTemplates[lang]
	if !ok {
		return "", fmt.Errorf("unknown language %q (should be c, js or go)", lang)
	}
	entries, reserved := w4on.ProtoTable()
	return com.compile(name, &headerData{Version: version.VersionOrHash, Entries: entries, Reserved: reserved})
}

// Song renders a compiled song as a C header defining its data as a byte
// array, named after the song.
func (com *Compiler) Song(name string, result *Result) (string, error) {
	return com.compile("song.h", &songData{
		Version: version.VersionOrHash,
		Name:    name,
		Symbol:  Symbol(name),
		Data:    result.Data,
		Tracks:  result.Tracks,
	})
}

// Symbol turns a name into a C identifier.
func Symbol(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "song"
	}
	if unicode.IsDigit(rune(s[0])) {
		s = "song_" + s
	}
	return s
}
