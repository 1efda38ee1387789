// Executable hashtree builds, proves and updates Merkle hash trees held in a
// local or blob backed store. See hashtree --help for usage.
package main

import (
	"github.com/forestrie/go-hashtree/cmd/hashtree/internal/cmd"
)

func main() {
	cmd.Execute()
}
