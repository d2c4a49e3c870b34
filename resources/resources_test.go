package resources_test

import (
	"os"
	"testing"

	"github.com/jetsetilly/portasound/resources"
	"github.com/jetsetilly/portasound/test"
)

func TestJoinPath(t *testing.T) {
	pth, err := resources.JoinPath("foo/bar", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".portasound/foo/bar/baz")

	pth, err = resources.JoinPath("foo", "bar", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".portasound/foo/bar/baz")

	pth, err = resources.JoinPath("foo/bar", "")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".portasound/foo/bar")

	pth, err = resources.JoinPath("", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".portasound/baz")

	pth, err = resources.JoinPath("", "")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".portasound")
}

func TestReadWrite(t *testing.T) {
	s, err := resources.Read("test_readwrite")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s, "")

	err = resources.Write("test_readwrite", "roms")
	test.DemandSuccess(t, err)

	s, err = resources.Read("test_readwrite")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s, "roms")

	pth, err := resources.JoinPath("test_readwrite")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, os.Remove(pth))
}
