package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/w4on/w4on"
	"github.com/w4on/w4on/compiler"
	"github.com/w4on/w4on/midifile"
	"github.com/w4on/w4on/version"
	"github.com/w4on/w4on/vm"
)

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	header := flag.Bool("c", false, "Also write the song as a C header (.h) next to the output file.")
	disasm := flag.Bool("d", false, "Print the disassembled data of every track.")
	strict := flag.Bool("strict", false, "Give an error when a note starts again before it has ended, instead of restarting it, and validate every instrument, not only the used ones.")
	quiet := flag.Bool("q", false, "Do not print the track statistics.")
	tmplDir := flag.String("t", "", "When writing the C header, use the templates in this directory instead of the standard templates.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	log.SetFlags(0)
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if flag.NArg() < 2 || flag.NArg() > 3 {
		flag.Usage()
		os.Exit(1)
	}
	midiPath, instrPath, outPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)
	instruments, err := w4on.LoadInstruments(instrPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load instruments: %v\n", err)
		os.Exit(1)
	}
	if *strict {
		if err := instruments.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid instruments: %v\n", err)
			os.Exit(1)
		}
	}
	var comp *compiler.Compiler
	if *tmplDir != "" {
		comp, err = compiler.NewFromTemplates(instruments, *tmplDir)
	} else {
		comp, err = compiler.New(instruments)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating compiler: %v\n", err)
		os.Exit(1)
	}
	perf, err := midifile.ReadFile(midiPath, *strict)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", midiPath, err)
		os.Exit(1)
	}
	result, err := comp.Compile(perf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not convert file %v: %v\n", midiPath, err)
		os.Exit(1)
	}
	if *disasm {
		for i, t := range result.Tracks {
			fmt.Printf("Track #%v (%v)\n", i+1, t.Name)
			instructions, err := vm.Disassemble(t.Data)
			for _, ins := range instructions {
				fmt.Printf("    %v\n", ins)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not disassemble track %v: %v\n", t.Name, err)
				os.Exit(1)
			}
		}
	}
	if !*quiet {
		if err := result.Report(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "could not print the report: %v\n", err)
			os.Exit(1)
		}
	}
	if outPath == "" {
		log.Println("No output file given, skipping")
		os.Exit(0)
	}
	if err := output(outPath, result.Data, *safe); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *header {
		name := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
		code, err := comp.Song(name, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not render the C header: %v\n", err)
			os.Exit(1)
		}
		if err := output(strings.TrimSuffix(outPath, filepath.Ext(outPath))+".h", []byte(code), *safe); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("File written")
}

func output(filename string, contents []byte, safe bool) error {
	original, err := os.ReadFile(filename)
	if err == nil {
		if bytes.Equal(original, contents) {
			return nil // no need to update
		}
		if safe {
			return fmt.Errorf("file %v would be overwritten", filename)
		}
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %v", dir, err)
		}
	}
	if err := os.WriteFile(filename, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", filename, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "w4on converter. Converts a .mid file into w4on data, playing each track with the instrument named after it.\nUsage: %s [flags] <in.mid> <instruments.json|.yml> [out.w4on]\nWithout an output file, the conversion is only checked and reported.\n", os.Args[0])
	flag.PrintDefaults()
}
