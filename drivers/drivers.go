// Package drivers lists every machine that can be emulated.
package drivers

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/portasound/drivers/yamaha"
	"github.com/jetsetilly/portasound/hardware"
)

var list = []hardware.Driver{
	yamaha.PSS790,
	yamaha.PSR500,
	yamaha.PSR400,
}

// Default is the name of the driver to use if none is specified
const Default = "pss790"

// List returns all drivers
func List() []hardware.Driver {
	return list
}

// Find returns the driver with the name. The name is not case sensitive
func Find(name string) (hardware.Driver, error) {
	name = strings.ToLower(name)
	for _, drv := range list {
		if drv.Name == name {
			return drv, nil
		}
	}
	return hardware.Driver{}, fmt.Errorf("drivers: no driver named %s", name)
}
