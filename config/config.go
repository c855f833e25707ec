// Package config loads an on-disk JSON configuration: the signer info
// embedded in every signature, the optional TSA endpoint, and the PAdES
// level. The cli package does not use it; its settings come from flags.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sigspan/pdfsign/splice"
)

// DefaultLocation is the conventional config file path. Nothing in this
// module reads it automatically; callers pass it to Read or Load.
var DefaultLocation = "./pdfsign.conf"

// Settings holds the most recently Read configuration.
var Settings Config

// Config is the root of the on-disk configuration file.
type Config struct {
	Info       splice.Info       `json:"info"`
	TSA        splice.TSA        `json:"tsa"`
	PAdESLevel splice.PAdESLevel `json:"pades_level"`
}

// Read loads configfile into Settings, logging and exiting the process on
// any error, matching the CLI's fail-fast startup behavior.
func Read(configfile string) {
	data, err := os.ReadFile(configfile)
	if err != nil {
		log.Fatalf("config: reading %s: %v", configfile, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		log.Fatalf("config: parsing %s: %v", configfile, err)
	}

	Settings = c
}

// Load is the non-fatal counterpart to Read, returning an error instead of
// calling log.Fatalf so library callers (and tests) can handle a missing or
// malformed config file themselves.
func Load(configfile string) (Config, error) {
	data, err := os.ReadFile(configfile)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", configfile, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", configfile, err)
	}

	return c, nil
}
