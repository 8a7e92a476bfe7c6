// Command cachesim replays a memory access trace against a configurable cache
// and reports the hit rate.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cachesim/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
