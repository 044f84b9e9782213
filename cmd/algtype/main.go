// Command algtype explores finite algebraic domains: their encodings,
// enumerations and dense total maps.
package main

import "github.com/mesh-intelligence/algtype/internal/cli"

func main() {
	cli.Execute()
}
