// Command compress compresses a file with the context mixing model of package cm
// and checks that the compressed file decodes back to the original.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fumin/cm"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

// errCheckFailed is returned when the compressed file does not decode back to the input.
var errCheckFailed = errors.New("check failed")

const usageNote = `note: there is no ability to decompress a file with %[1]s,
      but there is a built-in check for correct decompression.
`

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintf(w, "usage: %s [flags] uncompressed-file destination-file\n", fs.Name())
		fmt.Fprintf(w, usageNote, fs.Name())
		fs.PrintDefaults()
	}
}

// run compresses and checks according to the command line args.
// It returns flag.ErrHelp when args do not name exactly one input and one output file.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)
	orders := fs.Int("orders", cm.MaxOrders, "number of context models")
	coder := fs.String("coder", string(cm.PAQ), "arithmetic coder, paq or witten")
	verbose := fs.Bool("v", false, "verbosity")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return flag.ErrHelp
	}
	name, cname := fs.Arg(0), fs.Arg(1)

	cfg := cm.DefaultConfig()
	cfg.Orders = *orders
	cfg.Coder = cm.Coder(*coder)
	if *verbose {
		cfg.Logger = log.New(stderr, "", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Read the input first, so that a missing input leaves no empty output behind.
	contents, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	f, err := os.Create(cname)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()
	report, err := cm.CompressBytes(f, contents, cfg)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "")
	}

	if *verbose {
		pretty.Fprintf(stderr, "%# v\n", report)
	}
	if _, err := report.WriteTo(stdout); err != nil {
		return err
	}
	if !report.Verified {
		return errCheckFailed
	}
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	err := run(os.Args, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case err == flag.ErrHelp, err == errCheckFailed:
		os.Exit(1)
	default:
		log.Fatalf("%+v", err)
	}
}
