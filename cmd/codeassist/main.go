// Command codeassist is a terminal AI coding assistant.
package main

import "github.com/diogo/codeassist/internal/commands"

func main() {
	commands.Execute()
}
