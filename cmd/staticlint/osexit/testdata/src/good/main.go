package main

import "os"

func run() int {
	return 0
}

func exit(code int) {
	os.Exit(code)
}

func main() {
	exit(run())
}
