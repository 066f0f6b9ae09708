package config

import (
	"bytes"
	"io"

	"github.com/BurntSushi/toml"
)

func decodeTOML(data []byte, v any) error {
	_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	return err
}

func encodeTOML(w io.Writer, v any) error {
	return toml.NewEncoder(w).Encode(v)
}
