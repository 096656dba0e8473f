// Package compiler turns an extracted performance into a w4on file and
// renders the templates of the format: the protocol headers and the song
// data as source code.
package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/w4on/w4on"
	"github.com/w4on/w4on/midifile"
	"github.com/w4on/w4on/vm"
)

type (
	Compiler struct {
		Template    *template.Template
		Instruments w4on.Instruments
		// Logger receives the warnings of the compilation: skipped tracks
		// and corrected overlaps. Nil means log.Default().
		Logger *log.Logger
		// Workers is the number of tracks compiled in parallel. Zero means
		// runtime.NumCPU().
		Workers int
	}

	// Result is a compiled w4on file with the diagnostics collected while
	// compiling it.
	Result struct {
		Data           []byte
		Tempo          midifile.Tempo
		Tracks         []TrackInfo
		TickInaccuracy float64
	}

	// TrackInfo describes one compiled track.
	TrackInfo struct {
		Name  string
		Flags byte
		Data  []byte
		vm.Stats
	}

	job struct {
		name  string
		notes []w4on.RawNote
		instr w4on.Instrument
	}
)

//go:embed templates/*
var templateFS embed.FS

// New returns a new compiler using the default templates.
func New(instruments w4on.Instruments) (*Compiler, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Compiler{Template: tmpl, Instruments: instruments}, nil
}

// NewFromTemplates returns a new compiler using the templates in a directory
// instead of the default ones.
func NewFromTemplates(instruments w4on.Instruments, templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl, Instruments: instruments}, nil
}

func (com *Compiler) logger() *log.Logger {
	if com.Logger == nil {
		return log.Default()
	}
	return com.Logger
}

// Instrument returns the instrument for a track name. Names are compared in
// Unicode normal form C, so differently composed accents still match.
func (com *Compiler) Instrument(name string) (w4on.Instrument, bool) {
	if instr, ok := com.Instruments[name]; ok {
		return instr, true
	}
	name = norm.NFC.String(name)
	for k, instr := range com.Instruments {
		if norm.NFC.String(k) == name {
			return instr, true
		}
	}
	return w4on.Instrument{}, false
}

// Compile compiles the tracks of a performance. Empty tracks are skipped
// silently and tracks without an instrument with a warning. Only the
// instruments of compiled tracks are validated. Every other problem fails the
// whole compilation.
func (com *Compiler) Compile(perf *midifile.Performance) (*Result, error) {
	ret := &Result{Tempo: perf.Tempo}
	var jobs []job
	for _, track := range perf.Tracks {
		if len(track.Notes) == 0 {
			continue
		}
		quantized, inaccuracy := perf.Tempo.Requantize(track)
		ret.TickInaccuracy += inaccuracy
		instr, ok := com.Instrument(track.Name)
		if !ok {
			com.logger().Printf("No instrument specified for %v, skipping", track.Name)
			continue
		}
		if err := instr.Validate(); err != nil {
			return nil, fmt.Errorf("track %q: %w", track.Name, err)
		}
		jobs = append(jobs, job{name: track.Name, notes: quantized.Notes, instr: instr})
	}
	bytecodes := make([]*vm.Bytecode, len(jobs))
	errs := make([]error, len(jobs))
	workers := com.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	wg := sizedwaitgroup.New(workers)
	for i := range jobs {
		wg.Add()
		go func(i int) {
			defer wg.Done()
			bytecodes[i], errs[i] = compileTrack(jobs[i])
		}(i)
	}
	wg.Wait()
	datas := make([][]byte, 0, len(jobs))
	for i, j := range jobs {
		if errs[i] != nil {
			return nil, fmt.Errorf("track %q: %w", j.name, errs[i])
		}
		for _, w := range bytecodes[i].Warnings {
			com.logger().Printf("%v: %v", j.name, w)
		}
		ret.Tracks = append(ret.Tracks, TrackInfo{
			Name:  j.name,
			Flags: bytecodes[i].Data[0],
			Data:  bytecodes[i].Data,
			Stats: bytecodes[i].Stats,
		})
		datas = append(datas, bytecodes[i].Data)
	}
	var err error
	ret.Data, err = vm.Pack(datas)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func compileTrack(j job) (*vm.Bytecode, error) {
	events, err := vm.Classify(j.notes, j.instr.Arpeggiates())
	if err != nil {
		return nil, err
	}
	return vm.NewBytecode(events, j.instr)
}

func (com *Compiler) compile(templateName string, data interface{}) (string, error) {
	result := bytes.NewBufferString("")
	err := com.Template.ExecuteTemplate(result, templateName, data)
	if err != nil {
		return "", fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return result.String(), nil
}
