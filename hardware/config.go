package hardware

import (
	"github.com/jetsetilly/portasound/hardware/audio"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/gew"
	"github.com/jetsetilly/portasound/hardware/memory"
)

// MapFunc declares the entries of an address map
type MapFunc func(m *memory.Map)

// the default width of the program and data address spaces. 2MB for both
const addressWidth = 21

type CPUConfig struct {
	Variant mn1880.Variant
	Program MapFunc
	Data    MapFunc

	// the width in bits of the address spaces. the default is used if the
	// value is zero
	ProgramWidth int
	DataWidth    int
}

type SoundConfig struct {
	Tag     string
	Variant gew.Variant
	Clock   int
}

// Config is the machine configuration. It is filled in by State.Configure()
type Config struct {
	CPU      CPUConfig
	Sound    []SoundConfig
	Speakers []audio.Speaker
	Routes   []audio.Route
}

// SetCPU sets the CPU of the machine and the functions that declare the program
// and data address maps
func (cfg *Config) SetCPU(variant mn1880.Variant, program MapFunc, data MapFunc) {
	cfg.CPU = CPUConfig{
		Variant:      variant,
		Program:      program,
		Data:         data,
		ProgramWidth: addressWidth,
		DataWidth:    addressWidth,
	}
}

// AddSound adds a GEW sound device to the machine. The tag is used to refer to
// the device in address maps and audio routes
func (cfg *Config) AddSound(tag string, variant gew.Variant, clock int) {
	cfg.Sound = append(cfg.Sound, SoundConfig{
		Tag:     tag,
		Variant: variant,
		Clock:   clock,
	})
}

func (cfg *Config) AddSpeaker(tag string, pos audio.Position) {
	cfg.Speakers = append(cfg.Speakers, audio.Speaker{Tag: tag, Position: pos})
}

// AddRoute connects the output of a sound device to a speaker
func (cfg *Config) AddRoute(device string, output int, speaker string, gain float64) {
	cfg.Routes = append(cfg.Routes, audio.Route{
		Device:  device,
		Output:  output,
		Speaker: speaker,
		Gain:    gain,
	})
}
