// The main package for the focuscrawl executable.
package main

import "github.com/focuscrawl/focuscrawl/cmd"

func main() {
	cmd.Execute()
}
