// Package ui contains the channels used to communicate between the emulation
// and the gui. The emulation and the gui run in different goroutines and share
// nothing else.
package ui

import (
	"image"
	"io"
)

// State of the emulation
type State int

// List of valid State values
const (
	StatePaused State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// Image is sent by the emulation whenever the gui should be updated
type Image struct {
	// heat map of memory
	Main *image.RGBA

	// single line description of the machine
	Status string
}

// AudioReader is implemented by the source of audio data. Nudge() is called by
// the audio player when it is running short of data
type AudioReader interface {
	io.Reader
	Nudge()
}

// AudioSetup is sent by the emulation when the audio player should be
// (re)created
type AudioSetup struct {
	Freq int
	Read AudioReader
}

type UI struct {
	State      chan State
	SetImage   chan Image
	AudioSetup chan AudioSetup
}

func NewUI() *UI {
	return &UI{
		State:      make(chan State, 1),
		SetImage:   make(chan Image, 1),
		AudioSetup: make(chan AudioSetup, 1),
	}
}

// Push sends the state to the gui. If a previous state has not been received
// by the gui yet then it is replaced. The function never blocks
func (u *UI) Push(s State) {
	select {
	case <-u.State:
	default:
	}
	select {
	case u.State <- s:
	default:
	}
}

// Show sends the image to the gui, replacing any image that has not yet been
// received. The function never blocks
func (u *UI) Show(img Image) {
	select {
	case <-u.SetImage:
	default:
	}
	select {
	case u.SetImage <- img:
	default:
	}
}
