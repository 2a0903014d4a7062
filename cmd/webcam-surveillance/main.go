package main

import "github.com/demkkka/webcam-surveillance/cmd/webcam-surveillance/cmd"

func main() {
	cmd.Execute()
}
