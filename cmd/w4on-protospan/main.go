package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/w4on/w4on/compiler"
	"github.com/w4on/w4on/version"
)

func main() {
	tmplDir := flag.String("t", "", "Use the templates in this directory instead of the standard templates.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	var comp *compiler.Compiler
	var err error
	if *tmplDir != "" {
		comp, err = compiler.NewFromTemplates(nil, *tmplDir)
	} else {
		comp, err = compiler.New(nil)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating compiler: %v\n", err)
		os.Exit(1)
	}
	code, err := comp.Header(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Print(code)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "w4on protocol table generator. Prints the opcode constants of the w4on format.\nUsage: %s [flags] c|js|go\n", os.Args[0])
	flag.PrintDefaults()
}
