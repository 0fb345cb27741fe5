/*
Yalpc starts an interactive SLR(1) parser-table session.

It presents a numbered menu for loading a .yalp grammar specification,
building and printing its SLR(1) ACTION/GOTO table, parsing pre-tokenized
input files against it, and exporting the resulting parse tree as a
Graphviz DOT file.

Usage:

	yalpc [flags]

The flags are:

	-v, --version
		Give the current version of yalpc and then exit.

	-d, --direct
	    Force reading directly from the console as opposed to using GNU readline
		based routines for reading menu input even if launched in a tty with
		stdin and stdout.

Once started, choose a menu option by number. To exit, choose the "Exit"
option.
*/
package main

import (
	"fmt"
	"os"

	"github.com/corvidlabs/yalp"
	"github.com/corvidlabs/yalp/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session.
	ExitInitError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect *bool = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	sess, initErr := yalp.New(os.Stdin, os.Stdout, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	if err := sess.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
