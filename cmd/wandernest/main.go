package main

import "github.com/rpggio/wandernest/internal/commands"

func main() {
	commands.Execute()
}
