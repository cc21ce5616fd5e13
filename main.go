package main

import "github.com/rowanvale/html2img/cmd"

func main() {
	cmd.Execute()
}
