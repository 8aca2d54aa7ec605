package main

import "github.com/KaramelBytes/hpvdash/cmd"

func main() {
	cmd.Execute()
}
