package resources

import (
	"os"
	"path/filepath"
)

const portableMarker = "portable.txt"

// set by checkPortable() when the marker file is found
var portablePath string

func checkPortable() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	dir := filepath.Dir(exe)

	if _, err := os.Stat(filepath.Join(dir, portableMarker)); err != nil {
		return false
	}

	portablePath = filepath.Join(dir, "portasound_UserData")
	return true
}
