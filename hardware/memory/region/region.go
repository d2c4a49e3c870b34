// Package region declares and loads the ROM regions of a machine. A region is
// a fixed size block of memory that is filled from one or more ROM image
// files when the machine is created.
package region

import (
	"fmt"
	"slices"
	"strings"
)

// ROM is a single ROM image file and its placement in a region
type ROM struct {
	File   string
	Offset int
	Length int

	// expected checksums of the file. a zero CRC and an empty SHA1 mean the
	// checksums are not known
	CRC  uint32
	SHA1 string

	// NoDump is true if a good dump of the ROM is not known. the absence of the
	// file is a warning and not an error
	NoDump bool

	// Reload entries do not have a file. they copy the data of the previous
	// ROM in the region. this is used for address lines that the chip select
	// logic ignores
	Reload bool
}

// Load returns a ROM entry for a dumped ROM image
func Load(file string, offset int, length int, crc uint32, sha1 string) ROM {
	return ROM{
		File:   file,
		Offset: offset,
		Length: length,
		CRC:    crc,
		SHA1:   strings.ToLower(sha1),
	}
}

// NoDump returns a ROM entry for an image that hasn't been dumped
func NoDump(file string, offset int, length int) ROM {
	return ROM{
		File:   file,
		Offset: offset,
		Length: length,
		NoDump: true,
	}
}

// Reload returns a ROM entry that repeats the previous ROM at the offset
func Reload(offset int, length int) ROM {
	return ROM{
		Offset: offset,
		Length: length,
		Reload: true,
	}
}

func (r ROM) String() string {
	if r.Reload {
		return fmt.Sprintf("reload %06x-%06x", r.Offset, r.Offset+r.Length-1)
	}
	if r.NoDump {
		return fmt.Sprintf("%s %06x-%06x NO DUMP", r.File, r.Offset, r.Offset+r.Length-1)
	}
	return fmt.Sprintf("%s %06x-%06x CRC(%08x) SHA1(%s)", r.File, r.Offset, r.Offset+r.Length-1, r.CRC, r.SHA1)
}

// Def is the declaration of a region
type Def struct {
	Name string
	Size int
	ROMs []ROM
}

// validate checks that the ROMs fit inside the region
func (d Def) validate() error {
	if d.Size <= 0 {
		return fmt.Errorf("region %s: size must be positive", d.Name)
	}
	for i, r := range d.ROMs {
		if r.Length <= 0 || r.Offset < 0 || r.Offset+r.Length > d.Size {
			return fmt.Errorf("region %s: %s does not fit in region of %#x bytes", d.Name, r, d.Size)
		}
		if r.Reload {
			if i == 0 {
				return fmt.Errorf("region %s: reload without a preceeding ROM", d.Name)
			}
		} else if r.File == "" {
			return fmt.Errorf("region %s: ROM at %06x has no filename", d.Name, r.Offset)
		}
	}
	return nil
}

// Region is the loaded data of a region
type Region struct {
	Name string
	Data []uint8
}

func (r *Region) Label() string {
	return r.Name
}

func (r *Region) Status() string {
	return fmt.Sprintf("%s: %#x bytes", r.Name, len(r.Data))
}

// Set is the collection of regions in a machine
type Set struct {
	regions map[string]*Region
}

// Region returns the named region
func (s *Set) Region(name string) (*Region, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.regions[name]
	return r, ok
}

// Bytes returns the data of the named region
func (s *Set) Bytes(name string) ([]uint8, bool) {
	r, ok := s.Region(name)
	if !ok {
		return nil, false
	}
	return r.Data, true
}

// Names returns the names of all regions in alphabetical order
func (s *Set) Names() []string {
	var n []string
	for k := range s.regions {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}
