// Package main is the entry point for the Shepherd Bot CLI.
package main

import "github.com/shepherdbot/shepherd-bot/cmd/shepherd/commands"

func main() {
	commands.Execute()
}
