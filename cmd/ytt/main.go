package main

import (
	"youtube-transcriber/cmd/ytt/cmd"
)

func main() {
	cmd.Execute()
}
