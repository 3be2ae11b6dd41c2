package main

import (
	"os"

	"tsvplot/app"
	"tsvplot/hal/window"
)

func main() {
	os.Exit(app.Main(os.Args[1:], os.Stdout, os.Stderr, window.Run))
}
