// Command pnr validates Swedish personal identity numbers from the terminal.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"
)

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		if !errors.Is(err, errSomeInvalid) {
			fmt.Fprintln(os.Stderr, "pnr:", err)
		}
		os.Exit(1)
	}
}
