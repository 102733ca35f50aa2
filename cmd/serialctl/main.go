package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/voidreach/serial"
	"github.com/voidreach/serial/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	log.Logger = log.With().Str("app", "serialctl").Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "roundtrip":
		err = runRoundtrip(os.Args[2:])
	case "b64":
		err = runB64(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("serialctl failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  serialctl roundtrip [-config scenario.toml]
  serialctl b64 (-encode|-decode) <in> <out>
  serialctl dump <file.bxml>`)
}

func runB64(args []string) error {
	fs := flag.NewFlagSet("b64", flag.ExitOnError)
	encode := fs.Bool("encode", false, "encode <in> to base64 text")
	decode := fs.Bool("decode", false, "decode base64 text from <in>")
	fs.Parse(args)
	if *encode == *decode || fs.NArg() != 2 {
		return errors.New("b64 requires exactly one of -encode/-decode and <in> <out>")
	}
	in, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	var out []byte
	if *encode {
		out = []byte(serial.EncodeBase64(in))
	} else {
		out, err = serial.DecodeBase64(string(in))
		if err != nil {
			return err
		}
	}
	return os.WriteFile(fs.Arg(1), out, 0o644)
}

// runDump decodes a base64-mode document and prints its XML text.
func runDump(args []string) error {
	if len(args) != 1 {
		return errors.New("dump requires <file>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	text, err := serial.DecodeBase64(string(raw))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(text)
	return err
}
