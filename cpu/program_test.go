package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Instruction(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("set a 1\nsnd a\nrcv b"))
	assert.NoError(err)

	assert.Equal(3, prog.Len())

	ins, ok := prog.Instruction(0)
	assert.True(ok)
	assert.Equal(MakeSet('a', MakeNumber(1)), ins)

	ins, ok = prog.Instruction(2)
	assert.True(ok)
	assert.Equal(MakeRcv('b'), ins)

	_, ok = prog.Instruction(-1)
	assert.False(ok)

	_, ok = prog.Instruction(3)
	assert.False(ok)
}

func TestProgram_LineNo(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("; intro\nset a 1\n\nsnd a"))
	assert.NoError(err)

	assert.Equal(2, prog.LineNo(0))
	assert.Equal(4, prog.LineNo(1))
	assert.Equal(0, prog.LineNo(2))
	assert.Equal(0, prog.LineNo(-1))
}

func TestProgram_Instructions(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("snd 1\nsnd 2\nsnd 3"))
	assert.NoError(err)

	var pcs []int
	for pc, ins := range prog.Instructions() {
		pcs = append(pcs, pc)
		assert.Equal(OP_SND, ins.Op)
	}

	assert.Equal([]int{0, 1, 2}, pcs)
}
