package main

import "github.com/talentgrid/hiring-management/cmd"

func main() {
	cmd.Execute()
}
