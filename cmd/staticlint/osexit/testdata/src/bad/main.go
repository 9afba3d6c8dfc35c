package main

import "os"

func main() {
	defer func() {
		os.Exit(2)
	}()
	os.Exit(1) // want "direct os.Exit call in main function"
}
