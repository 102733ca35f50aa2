package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/voidreach/serial"
	"github.com/voidreach/serial/internal/config"
)

type sampleRecord struct {
	Idx  int
	Name string
	Data []float64
}

type roundtripCase struct {
	name string
	run  func(path, enc string) error
}

func runRoundtrip(args []string) error {
	fs := flag.NewFlagSet("roundtrip", flag.ExitOnError)
	configPath := fs.String("config", "", "scenario config (toml)")
	fs.Parse(args)

	cfg := config.DefaultScenario()
	if *configPath != "" {
		loaded, err := config.LoadScenario(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	dir := cfg.WorkDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "serialctl-")
		if err != nil {
			return err
		}
		dir = tmp
		if !cfg.KeepArtifacts {
			defer os.RemoveAll(tmp)
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cases := []roundtripCase{
		makeCase("int", 5),
		makeCase("string", "avada kedavra"),
		makeCase("float32", float32(1.414)),
		makeCase("vector of float64", []float64{3.14, 3.15, 3.16}),
		makeCase("map", map[string]uint8{"ZJU": 'z', "apple": 'a', "banana": 'b'}),
		makeCase("nested vectors", [][]int{{1, 3, 5}, {2, 4}}),
		makeCase("set of pairs", serial.NewSet(
			serial.Pair[string, float64]{First: "ZJU", Second: 1.1},
			serial.Pair[string, float64]{First: "NJU", Second: 2.2},
			serial.Pair[string, float64]{First: "SJTU", Second: 3.3},
		)),
		makeCase("record", sampleRecord{Idx: 233, Name: "YANAMI", Data: []float64{1.2, 2.3, 3.4}}),
	}

	failures := 0
	for _, enc := range cfg.Encodings {
		for i, c := range cases {
			path := filepath.Join(dir, fmt.Sprintf("case%02d%s", i+1, artifactExt(enc)))
			if err := c.run(path, enc); err != nil {
				failures++
				log.Error().Err(err).Str("encoding", enc).Str("case", c.name).Msg("round trip failed")
				continue
			}
			log.Info().Str("encoding", enc).Str("case", c.name).Msg("round trip ok")
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d round trip case(s) failed", failures)
	}
	return nil
}

func makeCase[T any](name string, value T) roundtripCase {
	return roundtripCase{
		name: name,
		run: func(path, enc string) error {
			if err := writeAs(value, path, enc); err != nil {
				return err
			}
			var out T
			if err := readAs(&out, path, enc); err != nil {
				return err
			}
			if !reflect.DeepEqual(value, out) {
				return fmt.Errorf("mismatch: got %#v want %#v", out, value)
			}
			return nil
		},
	}
}

func writeAs(v any, path, enc string) error {
	switch enc {
	case config.EncodingXML:
		return serial.SerializeXML(v, path)
	case config.EncodingXMLBase64:
		return serial.SerializeXMLBase64(v, path)
	default:
		return serial.Serialize(v, path)
	}
}

func readAs(v any, path, enc string) error {
	switch enc {
	case config.EncodingXML:
		return serial.DeserializeXML(v, path)
	case config.EncodingXMLBase64:
		return serial.DeserializeXMLBase64(v, path)
	default:
		return serial.Deserialize(v, path)
	}
}

func artifactExt(enc string) string {
	switch enc {
	case config.EncodingXML:
		return ".xml"
	case config.EncodingXMLBase64:
		return ".bxml"
	default:
		return ".data"
	}
}
