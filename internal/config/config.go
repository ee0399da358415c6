// Package config loads and validates the JSON configuration file the
// logpattern CLI and watch daemon run from.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"

	cclog "github.com/cc-tundra/logpattern/pkg/log"
)

// Config is the on-disk shape of a logpattern config file.
type Config struct {
	Threshold       float64 `json:"threshold"`
	WindowSize      int     `json:"window_size"`
	ChangeThreshold float64 `json:"change_threshold"`
	NumWorkers      int     `json:"num_workers"`
	ChunkSize       int     `json:"chunk_size"`
	UseMmap         bool    `json:"use_mmap"`
	DetectTypes     bool    `json:"detect_types"`
	SampleSize      int     `json:"sample_size"`

	NamingRulesPath string `json:"naming_rules_path,omitempty"`

	S3 struct {
		Bucket       string `json:"bucket,omitempty"`
		Region       string `json:"region,omitempty"`
		Endpoint     string `json:"endpoint,omitempty"`
		AccessKey    string `json:"access_key,omitempty"`
		SecretKey    string `json:"secret_key,omitempty"`
		UsePathStyle bool   `json:"use_path_style,omitempty"`
	} `json:"s3,omitempty"`

	NATS struct {
		URL     string `json:"url,omitempty"`
		Subject string `json:"subject,omitempty"`
	} `json:"nats,omitempty"`

	Metrics struct {
		Addr string `json:"addr,omitempty"`
	} `json:"metrics,omitempty"`
}

// Default mirrors pkg/logpattern.DefaultOptions so a missing config file
// behaves identically to the programmatic defaults.
func Default() Config {
	return Config{
		Threshold:       0.7,
		WindowSize:      100,
		ChangeThreshold: 0.5,
		NumWorkers:      1,
		ChunkSize:       1000,
		UseMmap:         true,
		DetectTypes:     true,
	}
}

const schema = `{
  "type": "object",
  "properties": {
    "threshold": {"type": "number", "minimum": 0, "maximum": 1},
    "window_size": {"type": "integer", "minimum": 1},
    "change_threshold": {"type": "number", "minimum": 0, "maximum": 1},
    "num_workers": {"type": "integer", "minimum": 0},
    "chunk_size": {"type": "integer", "minimum": 0},
    "use_mmap": {"type": "boolean"},
    "detect_types": {"type": "boolean"},
    "sample_size": {"type": "integer", "minimum": 0},
    "naming_rules_path": {"type": "string"},
    "s3": {"type": "object"},
    "nats": {"type": "object"},
    "metrics": {"type": "object"}
  },
  "additionalProperties": false
}`

var compiledSchema *jsonschema.Schema

func init() {
	sch, err := jsonschema.CompileString("logpattern-config.json", schema)
	if err != nil {
		cclog.Fatalf("internal/config: invalid embedded schema: %#v", err)
	}
	compiledSchema = sch
}

// Validate checks instance against the embedded config schema.
func Validate(instance json.RawMessage) error {
	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		return fmt.Errorf("internal/config: invalid json: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("internal/config: schema validation failed: %w", err)
	}
	return nil
}

// Load reads path, overlays a ".env" file from the current working
// directory onto the process environment (ignored if absent, matching the
// teacher's own optional .env behavior), validates against the schema, and
// decodes into Config.
// A missing path returns Default() unmodified.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil {
		cclog.Infof("internal/config: no .env file loaded: %v", err)
	}

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("internal/config: read %s: %w", path, err)
	}

	if err := Validate(raw); err != nil {
		return cfg, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("internal/config: decode %s: %w", path, err)
	}

	return cfg, nil
}
