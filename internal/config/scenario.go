package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

// ErrInvalidScenario is returned when a scenario file cannot be decoded.
var ErrInvalidScenario = errors.New("invalid scenario")

// LoadScenario reads a YAML scenario from path. Fields missing from the file
// keep their DefaultConfig values and the result is normalized.
func LoadScenario(path string) (epidemic.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return epidemic.Config{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	cfg, err := ParseScenario(data)
	if err != nil {
		return epidemic.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseScenario decodes YAML scenario data on top of the defaults.
func ParseScenario(data []byte) (epidemic.Config, error) {
	cfg := epidemic.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return epidemic.Config{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return cfg.Normalize(), nil
}

// MarshalScenario encodes cfg as a YAML scenario.
func MarshalScenario(cfg epidemic.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return buf.Bytes(), nil
}
