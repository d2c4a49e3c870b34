package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/portasound/test"
	"github.com/jetsetilly/portasound/wavwriter"
)

func TestWrite(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.wav")

	aw, err := wavwriter.New(fn, 41964)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, aw.Write([]int16{100, -100, 200, -200}))
	test.ExpectSuccess(t, aw.Write([]int16{300, -300}))
	test.ExpectEquality(t, aw.Frames(), 3)
	test.DemandSuccess(t, aw.Close())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.ExpectSuccess(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, int(dec.SampleRate), 41964)
	test.ExpectEquality(t, int(dec.NumChans), 2)
	test.ExpectEquality(t, int(dec.BitDepth), 16)
	test.DemandEquality(t, len(buf.Data), 6)
	test.ExpectEquality(t, buf.Data[0], 100)
	test.ExpectEquality(t, buf.Data[5], -300)
}

func TestBadSampleRate(t *testing.T) {
	_, err := wavwriter.New("out.wav", 0)
	test.ExpectFailure(t, err)
}
