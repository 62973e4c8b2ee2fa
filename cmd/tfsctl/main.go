// Command tfsctl formats, inspects, and serves tfs page-manager volumes.
// It mirrors the teacher CLI's shape: a small set of flag.FlagSet
// subcommands, plain log.Printf/Fatalf diagnostics, no framework.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "format":
		err = runFormat(os.Args[2:])
	case "stat":
		err = runStat(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("tfsctl %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tfsctl <command> [flags]

commands:
  format   create a new volume
  stat     print a volume's state-block summary
  serve    run the checkpoint scheduler and debug HTTP inspector`)
}
