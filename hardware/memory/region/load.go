package region

import (
	"archive/zip"
	"crypto/sha1"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/portasound/logger"
)

// Sentinel errors
var (
	ErrMissingROM  = errors.New("required ROM not found")
	ErrWrongLength = errors.New("ROM has the wrong length")
)

const logTag = "region"

// Report summarises the results of loading the regions of a machine
type Report struct {
	Found       []string
	NoDump      []string
	BadChecksum []string
	Missing     []string
}

func (rep Report) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%d found", len(rep.Found)))
	if len(rep.NoDump) > 0 {
		s.WriteString(fmt.Sprintf(", %d with no good dump known (%s)", len(rep.NoDump), strings.Join(rep.NoDump, ", ")))
	}
	if len(rep.BadChecksum) > 0 {
		s.WriteString(fmt.Sprintf(", %d with wrong checksums (%s)", len(rep.BadChecksum), strings.Join(rep.BadChecksum, ", ")))
	}
	if len(rep.Missing) > 0 {
		s.WriteString(fmt.Sprintf(", %d missing (%s)", len(rep.Missing), strings.Join(rep.Missing, ", ")))
	}
	return s.String()
}

// Loader finds ROM files. The names are searched in order in each directory
// of the rompath. For every name the loader looks for the file in a directory
// of that name and then in a zip archive of that name.
//
// The names are normally the driver name followed by the name of its parent.
type Loader struct {
	Rompath []string
	Names   []string
}

// Load creates the regions for the definitions and fills them with ROM data.
// The returned error wraps ErrMissingROM or ErrWrongLength if the machine
// cannot be started. Undumped ROMs and checksum mismatches are warnings only
// and are listed in the Report.
func (ld Loader) Load(defs []Def) (*Set, Report, error) {
	var rep Report

	set := &Set{
		regions: make(map[string]*Region),
	}

	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, rep, err
		}
		if _, ok := set.regions[d.Name]; ok {
			return nil, rep, fmt.Errorf("region %s: declared more than once", d.Name)
		}

		reg := &Region{
			Name: d.Name,
			Data: make([]uint8, d.Size),
		}
		set.regions[d.Name] = reg

		var last ROM
		for _, r := range d.ROMs {
			if r.Reload {
				n := min(r.Length, last.Length)
				copy(reg.Data[r.Offset:r.Offset+n], reg.Data[last.Offset:last.Offset+n])
				continue // for loop
			}
			last = r

			data, where, err := ld.find(r.File)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return nil, rep, fmt.Errorf("region %s: %s: %w", d.Name, r.File, err)
				}
				if r.NoDump {
					logger.Logf(logger.Allow, logTag, "%s: NOT FOUND (NO GOOD DUMP KNOWN)", r.File)
					rep.NoDump = append(rep.NoDump, r.File)
				} else {
					logger.Logf(logger.Allow, logTag, "%s: NOT FOUND", r.File)
					rep.Missing = append(rep.Missing, r.File)
				}
				continue // for loop
			}

			if len(data) != r.Length {
				return nil, rep, fmt.Errorf("%w: %s: expected %#x bytes but found %#x",
					ErrWrongLength, r.File, r.Length, len(data))
			}

			if !r.NoDump && !r.verify(data) {
				logger.Logf(logger.Allow, logTag, "%s: WRONG CHECKSUMS: expected CRC(%08x) SHA1(%s) found CRC(%08x) SHA1(%x)",
					r.File, r.CRC, r.SHA1, crc32.ChecksumIEEE(data), sha1.Sum(data))
				rep.BadChecksum = append(rep.BadChecksum, r.File)
			}

			copy(reg.Data[r.Offset:], data)
			rep.Found = append(rep.Found, r.File)
			logger.Logf(logger.Allow, logTag, "%s loaded from %s", r.File, where)
		}
	}

	if len(rep.Missing) > 0 {
		return set, rep, fmt.Errorf("%w: %s", ErrMissingROM, strings.Join(rep.Missing, ", "))
	}

	return set, rep, nil
}

// verify returns false if the data doesn't match a known checksum
func (r ROM) verify(data []uint8) bool {
	if r.CRC != 0 && crc32.ChecksumIEEE(data) != r.CRC {
		return false
	}
	if r.SHA1 != "" && fmt.Sprintf("%x", sha1.Sum(data)) != r.SHA1 {
		return false
	}
	return true
}

// find returns the data of the named file and a description of where it was
// found. an error wrapping fs.ErrNotExist is returned if the file can't be
// found anywhere
func (ld Loader) find(file string) ([]uint8, string, error) {
	for _, dir := range ld.Rompath {
		for _, name := range ld.Names {
			pth := filepath.Join(dir, name, file)
			data, err := os.ReadFile(pth)
			if err == nil {
				return data, pth, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, "", err
			}

			pth = filepath.Join(dir, fmt.Sprintf("%s.zip", name))
			data, err = readFromZip(pth, file)
			if err == nil {
				return data, pth, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, "", err
			}
		}
	}
	return nil, "", fmt.Errorf("%s: %w", file, fs.ErrNotExist)
}

// readFromZip returns the contents of the file in the archive. the file name
// comparison ignores case and any directory inside the archive
func readFromZip(archive string, file string) ([]uint8, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Base(f.Name), file) {
			continue // for loop
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", archive, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("%s in %s: %w", file, archive, fs.ErrNotExist)
}
