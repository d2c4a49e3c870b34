package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Read returns the contents of the named resource file. A file that does not
// exist is not an error and the empty string is returned
func Read(filename string) (string, error) {
	pth, err := JoinPath(filename)
	if err != nil {
		return "", fmt.Errorf("resources: %w", err)
	}

	b, err := os.ReadFile(pth)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("resources: %w", err)
	}

	return string(b), nil
}

// Write replaces the contents of the named resource file. The content is
// written to a temporary file in the same directory which is then renamed
func Write(filename string, content string) error {
	pth, err := JoinPath(filename)
	if err != nil {
		return fmt.Errorf("resources: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(pth), filepath.Base(pth))
	if err != nil {
		return fmt.Errorf("resources: %w", err)
	}

	_, err = f.WriteString(content)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("resources: %w", err)
	}

	err = f.Close()
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("resources: %w", err)
	}

	err = os.Rename(f.Name(), pth)
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("resources: %w", err)
	}

	return nil
}
