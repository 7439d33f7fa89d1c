// Package config loads analysis settings from a YAML file, CIDM_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/scoring"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/storage"
)

// Config is the full set of analysis settings.
type Config struct {
	Influence InfluenceConfig `mapstructure:"influence" yaml:"influence"`
	Failure   FailureConfig   `mapstructure:"failure" yaml:"failure"`
	Build     BuildConfig     `mapstructure:"build" yaml:"build"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Workers   int             `mapstructure:"workers" yaml:"workers"` // 0 means GOMAXPROCS
}

// InfluenceConfig configures the influence engine.
type InfluenceConfig struct {
	Damping       float64 `mapstructure:"damping" yaml:"damping"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance"`
	TopN          int     `mapstructure:"top_n" yaml:"top_n"`
}

// FailureConfig configures the failure simulator.
type FailureConfig struct {
	DecayFactor float64 `mapstructure:"decay_factor" yaml:"decay_factor"`
	Threshold   float64 `mapstructure:"threshold" yaml:"threshold"`
	MaxSteps    int     `mapstructure:"max_steps" yaml:"max_steps"` // 0 means one per node
}

// BuildConfig configures the graph builder.
type BuildConfig struct {
	Aggregation    string  `mapstructure:"aggregation" yaml:"aggregation"`
	ClampTolerance float64 `mapstructure:"clamp_tolerance" yaml:"clamp_tolerance"`
}

// DataConfig names the record inputs and the scoring inputs.
type DataConfig struct {
	Companies        string                  `mapstructure:"companies" yaml:"companies"`
	Assets           string                  `mapstructure:"assets" yaml:"assets"`
	SectorTable      string                  `mapstructure:"sector_table" yaml:"sector_table"`
	RegulatedSectors []string                `mapstructure:"regulated_sectors" yaml:"regulated_sectors"`
	Reliance         scoring.RelianceWeights `mapstructure:"reliance" yaml:"reliance"`
}

// StorageConfig selects where snapshots and record databases live.
type StorageConfig struct {
	Backend  string   `mapstructure:"backend" yaml:"backend"`
	Dir      string   `mapstructure:"dir" yaml:"dir"`
	Compress bool     `mapstructure:"compress" yaml:"compress"`
	S3       S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	Prefix       string `mapstructure:"prefix" yaml:"prefix"`
	Region       string `mapstructure:"region" yaml:"region"`
	Profile      string `mapstructure:"profile" yaml:"profile"`
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Output      string `mapstructure:"output" yaml:"output"` // empty means stdout
	Format      string `mapstructure:"format" yaml:"format"`
	TopN        int    `mapstructure:"top_n" yaml:"top_n"`
	BlastRadius bool   `mapstructure:"blast_radius" yaml:"blast_radius"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the engine defaults.
func Defaults() Config {
	influence := algorithms.DefaultInfluenceOptions()
	failure := algorithms.DefaultFailureOptions()
	build := graph.DefaultBuildOptions()

	return Config{
		Influence: InfluenceConfig{
			Damping:       influence.DampingFactor,
			MaxIterations: influence.MaxIterations,
			Tolerance:     influence.Tolerance,
			TopN:          influence.TopN,
		},
		Failure: FailureConfig{
			DecayFactor: failure.DecayFactor,
			Threshold:   failure.Threshold,
			MaxSteps:    failure.MaxSteps,
		},
		Build: BuildConfig{
			Aggregation:    string(build.Aggregation),
			ClampTolerance: build.ClampTolerance,
		},
		Data: DataConfig{
			Reliance: scoring.DefaultRelianceWeights(),
		},
		Storage: StorageConfig{
			Backend: storage.BackendLocal,
			Dir:     "data",
		},
		Report: ReportConfig{
			Format: "json",
			TopN:   algorithms.DefaultTopN,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// InfluenceOptions converts the influence section.
func (c Config) InfluenceOptions(log logging.Logger) algorithms.InfluenceOptions {
	return algorithms.InfluenceOptions{
		DampingFactor: c.Influence.Damping,
		MaxIterations: c.Influence.MaxIterations,
		Tolerance:     c.Influence.Tolerance,
		TopN:          c.Influence.TopN,
		Logger:        log,
	}
}

// FailureOptions converts the failure section.
func (c Config) FailureOptions(log logging.Logger) algorithms.FailureOptions {
	return algorithms.FailureOptions{
		DecayFactor: c.Failure.DecayFactor,
		Threshold:   c.Failure.Threshold,
		MaxSteps:    c.Failure.MaxSteps,
		Logger:      log,
	}
}

// BuildOptions converts the build section.
func (c Config) BuildOptions(log logging.Logger) graph.BuildOptions {
	return graph.BuildOptions{
		Aggregation:    graph.Aggregation(c.Build.Aggregation),
		ClampTolerance: c.Build.ClampTolerance,
		Logger:         log,
	}
}

// CSVOptions converts the data section. Sector names are loaded separately
// from Data.SectorTable.
func (c Config) CSVOptions() records.CSVOptions {
	return records.CSVOptions{
		RegulatedSectors: scoring.NewSectorSet(c.Data.RegulatedSectors...),
		RelianceWeights:  c.Data.Reliance,
	}
}

// StorageOptions converts the storage section. S3 credentials come from the
// SDK's default chain.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:  c.Storage.Backend,
		Dir:      c.Storage.Dir,
		Compress: c.Storage.Compress,
		S3: storage.S3Options{
			Bucket:       c.Storage.S3.Bucket,
			Prefix:       c.Storage.S3.Prefix,
			Region:       c.Storage.S3.Region,
			Profile:      c.Storage.S3.Profile,
			Endpoint:     c.Storage.S3.Endpoint,
			UsePathStyle: c.Storage.S3.UsePathStyle,
		},
	}
}

// Logger returns a stderr JSON logger at the configured level.
func (c Config) Logger() logging.Logger {
	return logging.NewStderrLogger(c.Log.Level)
}
