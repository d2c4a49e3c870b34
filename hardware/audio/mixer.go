// Package audio mixes the outputs of the sound devices of a machine into the
// stereo speaker pair. Mixed frames are produced by the emulation goroutine with
// Advance() and consumed by the audio player in the gui through Read().
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// Device is a sound device with one or more outputs
type Device interface {
	Label() string
	SampleRate() int
	Outputs() int

	// Render fills the buffers with samples. there is one buffer for each
	// output and each buffer is the same length
	Render(out [][]int16)
}

// Position of a speaker in the stereo field
type Position int

// List of valid Position values
const (
	FrontLeft Position = iota
	FrontRight
)

func (p Position) String() string {
	switch p {
	case FrontLeft:
		return "front left"
	case FrontRight:
		return "front right"
	}
	return "unknown"
}

type Speaker struct {
	Tag      string
	Position Position
}

// Route connects an output of a device to a speaker
type Route struct {
	Device  string
	Output  int
	Speaker string
	Gain    float64
}

func (r Route) String() string {
	return fmt.Sprintf("%s:%d -> %s (%.2f)", r.Device, r.Output, r.Speaker, r.Gain)
}

// Sink receives a copy of every frame mixed. Frames are interleaved left/right
// signed 16 bit values
type Sink interface {
	Write(frames []int16) error
}

// the maximum number of bytes waiting to be read by the audio player. if the
// emulation is producing frames faster than they are consumed then the oldest
// frames are dropped
const maxQueued = 1 << 16

// number of bytes in a single stereo frame
const frameSize = 4

type source struct {
	dev  Device
	bufs [][]int16

	// the part of a sample left over from the previous call to Advance(). in
	// units of samples*nanoseconds
	remainder int64
}

type Mixer struct {
	rate     int
	speakers []Speaker
	routes   []Route
	sources  map[string]*source
	order    []string
	sink     Sink

	// the part of a frame left over from the previous call to Advance()
	remainder int64

	// mixed frames are accessed by the emulation and by the audio player,
	// which run in different goroutines
	crit   sync.Mutex
	queue  []uint8
	frames []int16

	// number of frames dropped because the queue was full
	dropped int
}

// NewMixer creates a mixer that produces frames at the sample rate
func NewMixer(rate int) *Mixer {
	return &Mixer{
		rate:    rate,
		sources: make(map[string]*source),
	}
}

// SampleRate returns the number of frames mixed for every second of emulated
// time
func (mx *Mixer) SampleRate() int {
	return mx.rate
}

func (mx *Mixer) AddSpeaker(tag string, pos Position) {
	mx.speakers = append(mx.speakers, Speaker{Tag: tag, Position: pos})
}

func (mx *Mixer) AddDevice(dev Device) {
	if _, ok := mx.sources[dev.Label()]; ok {
		return
	}
	src := &source{
		dev:  dev,
		bufs: make([][]int16, dev.Outputs()),
	}
	mx.sources[dev.Label()] = src
	mx.order = append(mx.order, dev.Label())
}

// AddRoute connects a device output to a speaker. Both the device and the
// speaker must have been added to the mixer
func (mx *Mixer) AddRoute(r Route) error {
	src, ok := mx.sources[r.Device]
	if !ok {
		return fmt.Errorf("audio: no device %s for route", r.Device)
	}
	if r.Output < 0 || r.Output >= src.dev.Outputs() {
		return fmt.Errorf("audio: device %s has no output %d", r.Device, r.Output)
	}
	if _, ok := mx.speaker(r.Speaker); !ok {
		return fmt.Errorf("audio: no speaker %s for route", r.Speaker)
	}
	mx.routes = append(mx.routes, r)
	return nil
}

func (mx *Mixer) speaker(tag string) (Speaker, bool) {
	for _, s := range mx.speakers {
		if s.Tag == tag {
			return s, true
		}
	}
	return Speaker{}, false
}

// SetSink sets the sink for mixed frames. A nil value removes the sink
func (mx *Mixer) SetSink(sink Sink) {
	mx.sink = sink
}

// Reset removes all queued frames and clears the dropped count
func (mx *Mixer) Reset() {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.queue = mx.queue[:0]
	mx.dropped = 0
	mx.remainder = 0
	for _, src := range mx.sources {
		src.remainder = 0
	}
}

// Advance mixes the number of frames that occur in the duration of emulated
// time. Returns the number of frames mixed
func (mx *Mixer) Advance(d time.Duration) (int, error) {
	if d <= 0 || mx.rate <= 0 {
		return 0, nil
	}
	acc := int64(d)*int64(mx.rate) + mx.remainder
	n := int(acc / int64(time.Second))
	mx.remainder = acc % int64(time.Second)
	if n == 0 {
		return 0, nil
	}
	return n, mx.Mix(n, d)
}

// Mix produces the number of frames. The duration is the amount of emulated
// time the frames represent and is used to decide how many samples each device
// must render
func (mx *Mixer) Mix(frames int, d time.Duration) error {
	if cap(mx.frames) < frames*2 {
		mx.frames = make([]int16, frames*2)
	}
	mx.frames = mx.frames[:frames*2]

	left := make([]float64, frames)
	right := make([]float64, frames)

	for _, tag := range mx.order {
		src := mx.sources[tag]

		acc := int64(d)*int64(src.dev.SampleRate()) + src.remainder
		n := int(acc / int64(time.Second))
		src.remainder = acc % int64(time.Second)
		if n == 0 {
			n = frames
		}

		for i := range src.bufs {
			if cap(src.bufs[i]) < n {
				src.bufs[i] = make([]int16, n)
			}
			src.bufs[i] = src.bufs[i][:n]
		}
		src.dev.Render(src.bufs)

		for _, r := range mx.routes {
			if r.Device != tag {
				continue // for loop
			}
			spk, _ := mx.speaker(r.Speaker)
			out := left
			if spk.Position == FrontRight {
				out = right
			}

			// nearest neighbour resampling from the device rate to the mixer
			// rate
			buf := src.bufs[r.Output]
			for i := range frames {
				out[i] += float64(buf[i*n/frames]) * r.Gain
			}
		}
	}

	for i := range frames {
		mx.frames[i*2] = clamp(left[i])
		mx.frames[i*2+1] = clamp(right[i])
	}

	mx.enqueue(mx.frames)

	if mx.sink != nil {
		err := mx.sink.Write(mx.frames)
		if err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}

	return nil
}

func clamp(v float64) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, math.Round(v))))
}

func (mx *Mixer) enqueue(frames []int16) {
	mx.crit.Lock()
	defer mx.crit.Unlock()

	for _, f := range frames {
		mx.queue = binary.LittleEndian.AppendUint16(mx.queue, uint16(f))
	}

	if len(mx.queue) > maxQueued {
		drop := len(mx.queue) - maxQueued
		drop += (frameSize - drop%frameSize) % frameSize
		mx.dropped += drop / frameSize
		mx.queue = append(mx.queue[:0], mx.queue[drop:]...)
	}
}

// Read implements the io.Reader interface. The data is signed 16 bit little
// endian stereo frames. Read never blocks and will return zero bytes if no
// frames are waiting
func (mx *Mixer) Read(buf []uint8) (int, error) {
	mx.crit.Lock()
	defer mx.crit.Unlock()

	// only read complete frames
	n := min(len(buf), len(mx.queue))
	n -= n % frameSize

	copy(buf, mx.queue[:n])
	mx.queue = append(mx.queue[:0], mx.queue[n:]...)

	return n, nil
}

// Queued returns the number of frames waiting to be read
func (mx *Mixer) Queued() int {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	return len(mx.queue) / frameSize
}

// Dropped returns the number of frames that have been dropped because they
// were not read quickly enough
func (mx *Mixer) Dropped() int {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	return mx.dropped
}

func (mx *Mixer) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("mixer %dHz", mx.rate))
	for _, spk := range mx.speakers {
		s.WriteString(fmt.Sprintf("\nspeaker %s (%s)", spk.Tag, spk.Position))
	}
	for _, r := range mx.routes {
		s.WriteString(fmt.Sprintf("\nroute %s", r))
	}
	return s.String()
}
