package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s (app|admin|wscat) args...\n", os.Args[0])
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	module := os.Args[1]
	args := os.Args[2:]

	switch module {
	case "app":
		appMain(args)
	case "admin":
		os.Exit(adminMain(args, os.Stdout))
	case "wscat":
		wscatMain(args)
	default:
		usage()
	}
}
