// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// opMap is a map of mnemonics to operation types.
var opMap = map[string]Op{
	"snd": OP_SND,
	"set": OP_SET,
	"add": OP_ADD,
	"mul": OP_MUL,
	"mod": OP_MOD,
	"rcv": OP_RCV,
	"jgz": OP_JGZ,
}

// Assembler is a single pass assembler for the duet system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// registerOf returns the register named by a single word.
func (asm *Assembler) registerOf(word string) (reg Register, err error) {
	if len(word) != 1 || !ValidRegister(Register(word[0])) {
		err = ErrRegisterInvalid
		return
	}

	reg = Register(word[0])
	return
}

// valueOf returns the operand value of a simple word: a register name,
// or a signed integer literal.
func (asm *Assembler) valueOf(word string) (val Value, err error) {
	if len(word) == 1 && ValidRegister(Register(word[0])) {
		val = MakeRegister(Register(word[0]))
		return
	}

	num, perr := strconv.ParseInt(word, 0, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	val = MakeNumber(num)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into instruction words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// Check for equates
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseWords assembles one instruction from its words.
func (asm *Assembler) parseWords(words []string, lineno int, text string) (err error) {
	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	var ins Instruction

	switch op {
	case OP_SND:
		if len(args) != 1 {
			err = ErrOpcodeArgs
			return
		}
		var val Value
		val, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		ins = MakeSnd(val)
	case OP_RCV:
		if len(args) != 1 {
			err = ErrOpcodeArgs
			return
		}
		var reg Register
		reg, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		ins = MakeRcv(reg)
	case OP_JGZ:
		if len(args) != 2 {
			err = ErrOpcodeArgs
			return
		}
		var cond, off Value
		cond, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		off, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
		ins = MakeJgz(cond, off)
	default:
		if len(args) != 2 {
			err = ErrOpcodeArgs
			return
		}
		var reg Register
		var val Value
		reg, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		val, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
		ins = Instruction{Op: op, Reg: reg, Val: val}
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:      lineno,
		Text:        text,
		Instruction: ins,
	})

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		if len(words) == 0 {
			continue
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{Opcodes: slices.Clone(asm.Opcode)}

	return
}
