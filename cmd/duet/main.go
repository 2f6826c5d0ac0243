// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/emulator"
)

// defineFlags collects repeated -D NAME=value predefines.
type defineFlags []string

func (df *defineFlags) String() string {
	return strings.Join(*df, ",")
}

func (df *defineFlags) Set(value string) error {
	*df = append(*df, value)
	return nil
}

func main() {
	var compile string
	var solo bool
	var verbose bool
	var defines defineFlags

	flag.StringVar(&compile, "c", "-", ".duet file to compile")
	flag.BoolVar(&solo, "1", false, "Single-core legacy mode (recover semantics)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(&defines, "D", "Predefine an equate as NAME=value")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var input io.Reader
	if compile == "-" {
		input = os.Stdin
	} else {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()
		input = inf
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for _, define := range defines {
		name, value, ok := strings.Cut(define, "=")
		if !ok {
			log.Fatalf("%v: -D %v: not NAME=value", os.Args[0], define)
		}
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if solo {
		run := emulator.NewSolo(prog)
		run.Verbose = verbose

		frequency, err := run.Run()
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("recovered frequency: %v\n", frequency)
	} else {
		duet := emulator.NewDuet(prog)
		duet.Verbose = verbose

		err := duet.Run()
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("core 0 sent: %v\n", duet.Sent[0])
		fmt.Printf("core 1 sent: %v\n", duet.Sent[1])
		fmt.Printf("state: %v\n", duet.State())
	}
}
