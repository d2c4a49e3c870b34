package debugger

import (
	"math/rand/v2"
)

// context implements the hardware.Context interface
type context struct {
	rand        *rand.Rand
	unconfirmed bool
	random      bool
}

func (ctx *context) Reset() {
	ctx.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (ctx *context) Rand8Bit() uint8 {
	return uint8(ctx.rand.IntN(256))
}

func (ctx *context) UnconfirmedDescramble() bool {
	return ctx.unconfirmed
}
