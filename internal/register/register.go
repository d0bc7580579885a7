// Package register reads and writes risk-register documents.
//
// A register is a simulation request stored as JSON or YAML:
//
//	iterations: 10000
//	delay_slack: 5
//	budget_slack: 20000
//	seed: 42
//	risks:
//	  - name: Supplier insolvency
//	    likelihood: 5
//	    kill: true
//	  - name: Late design sign-off
//	    likelihood: 40
//	    delay_min: 2
//	    delay_mode: 5
//	    delay_max: 15
package register

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"risk-mcs/internal/simulation"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Format is a register encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for file extensions other than .json, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported register format")

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a register file.
func Load(path string) (simulation.Request, error) {
	format, err := FormatFor(path)
	if err != nil {
		return simulation.Request{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return simulation.Request{}, fmt.Errorf("failed to read register: %w", err)
	}

	req, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return simulation.Request{}, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("risks", len(req.Risks)).Msg("Loaded risk register")
	return req, nil
}

// Decode parses a register. Unknown fields are rejected so that typos do not
// silently become zero-valued risks, and a seed wider than 32 bits is rejected
// instead of being truncated.
func Decode(r io.Reader, format Format) (simulation.Request, error) {
	var req simulation.Request

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return simulation.Request{}, fmt.Errorf("invalid register: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return simulation.Request{}, fmt.Errorf("invalid register: %w", err)
		}
	default:
		return simulation.Request{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := req.Validate(); err != nil {
		return simulation.Request{}, fmt.Errorf("invalid register: %w", err)
	}
	return req, nil
}

// Save writes a register file, choosing the encoding from the extension.
func Save(path string, req simulation.Request) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(req)
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(req)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode register: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create register directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write register: %w", err)
	}
	return nil
}
