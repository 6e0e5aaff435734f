package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/emptyOVO/flightmr/batch"
)

func getenvDefault(name, d string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return d
}

func getenvBool(name string, d bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func loadFlowConfig(path string) (batch.FlowConfig, error) {
	var cfg batch.FlowConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// envFlowConfig is the flow used without --config: csv in, csv out.
func envFlowConfig() batch.FlowConfig {
	return batch.FlowConfig{
		Version: batch.FlowVersionV1,
		Source: batch.FlowSourceConfig{
			Type: "csv",
			CSV: batch.CSVSourceConfig{
				Flights:  os.Getenv("FLIGHTMR_FLIGHTS"),
				Airports: os.Getenv("FLIGHTMR_AIRPORTS"),
			},
		},
		Transform: batch.FlowTransformConfig{
			JoinMiss:         os.Getenv("FLIGHTMR_JOIN_MISS"),
			DumpIntermediate: getenvBool("FLIGHTMR_DUMP_INTERMEDIATE", false),
		},
		Sink: batch.FlowSinkConfig{
			Type: "csv",
			CSV:  batch.CSVSinkConfig{OutputDir: getenvDefault("FLIGHTMR_OUT_DIR", ".")},
		},
	}
}

func resolveFlowConfig(path string) (batch.FlowConfig, error) {
	var (
		cfg batch.FlowConfig
		err error
	)
	if path == "" {
		cfg = envFlowConfig()
	} else if cfg, err = loadFlowConfig(path); err != nil {
		return cfg, err
	}
	return cfg, batch.ValidateFlowConfig(cfg)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
