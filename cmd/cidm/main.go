// Command cidm maps critical infrastructure dependencies between companies.
package main

import "github.com/Alexandroide/IS4234-Graph-SupTech/cmd/cidm/commands"

func main() {
	commands.Execute()
}
