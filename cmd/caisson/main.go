// Command caisson computes cut lists, machining holes and panel drawings
// for cabinet scenes.
package main

import "github.com/chazu/caisson/internal/cli"

func main() {
	cli.Execute()
}
