// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a test error and allow the test to continue.
// The Demand*() functions report a test fatality.
//
// Both families accept optional tags. The tags are printed as a prefix to the
// failure message and are useful for identifying which iteration of a loop
// failed.
package test
