package main

import "fitnesshub/fitness-api/cmd/fitnessctl/commands"

func main() {
	commands.Execute()
}
