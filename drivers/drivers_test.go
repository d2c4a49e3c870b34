package drivers_test

import (
	"testing"

	"github.com/jetsetilly/portasound/drivers"
	"github.com/jetsetilly/portasound/test"
)

func TestFind(t *testing.T) {
	drv, err := drivers.Find("PSS790")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, drv.Description, "PSS-790")

	drv, err = drivers.Find(drivers.Default)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, drv.Name, drivers.Default)

	_, err = drivers.Find("psr1000")
	test.ExpectFailure(t, err)
}

func TestList(t *testing.T) {
	names := make(map[string]bool)
	for _, drv := range drivers.List() {
		test.ExpectFailure(t, names[drv.Name], drv.Name)
		names[drv.Name] = true
		test.ExpectSuccess(t, drv.New != nil, drv.Name)
	}

	// every parent must be in the list
	for _, drv := range drivers.List() {
		if drv.Parent != "" {
			test.ExpectSuccess(t, names[drv.Parent], drv.Name)
		}
	}
}
