package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

var inputValidator = validator.New()

// readInput decodes and validates a JSON file. "-" reads stdin.
func readInput(path string, stdin io.Reader, dst any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "open input %s", path)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return eris.Wrap(err, "decode input")
	}
	if err := inputValidator.Struct(dst); err != nil {
		return eris.Wrap(err, "validate input")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
