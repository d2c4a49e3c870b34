package debugger

import (
	"bufio"
	"io"
)

type input struct {
	s   string
	err error
}

// readInput sends every line read from r to the channel. the function returns
// after the first error, which is also sent to the channel. io.EOF is sent
// when the reader is exhausted
func readInput(r io.Reader, ch chan input) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ch <- input{s: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	ch <- input{err: err}
}
