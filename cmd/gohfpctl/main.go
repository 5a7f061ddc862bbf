// gohfpctl -- inspect and exercise the gohfp Hands-Free Profile core.
package main

import "github.com/hfpstack/gohfp/cmd/gohfpctl/commands"

func main() {
	commands.Execute()
}
