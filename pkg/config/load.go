package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// CIDM_INFLUENCE_DAMPING=0.9.
const EnvPrefix = "CIDM"

// DefaultFile is the config file searched for in the working directory
// when no explicit path is given.
const DefaultFile = "cidm"

// FlagKeys maps command-line flag names to config keys. Load binds every
// flag in this table that the given flag set defines.
var FlagKeys = map[string]string{
	"damping":        "influence.damping",
	"max-iterations": "influence.max_iterations",
	"tolerance":      "influence.tolerance",
	"top":            "influence.top_n",
	"decay":          "failure.decay_factor",
	"threshold":      "failure.threshold",
	"max-steps":      "failure.max_steps",
	"aggregation":    "build.aggregation",
	"companies":      "data.companies",
	"assets":         "data.assets",
	"sector-table":   "data.sector_table",
	"regulated":      "data.regulated_sectors",
	"storage":        "storage.backend",
	"data-dir":       "storage.dir",
	"compress":       "storage.compress",
	"s3-bucket":      "storage.s3.bucket",
	"s3-prefix":      "storage.s3.prefix",
	"s3-region":      "storage.s3.region",
	"s3-endpoint":    "storage.s3.endpoint",
	"s3-path-style":  "storage.s3.use_path_style",
	"output":         "report.output",
	"format":         "report.format",
	"blast-radius":   "report.blast_radius",
	"metrics-file":   "report.metrics_file",
	"log-level":      "log.level",
	"workers":        "workers",
}

// Load reads the config file at path (or ./cidm.yaml when path is empty and
// the file exists), applies CIDM_* environment variables and then any flags
// in flags that were set explicitly. The result is validated.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// keys that appear in neither the file nor the flags.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("influence.damping", d.Influence.Damping)
	v.SetDefault("influence.max_iterations", d.Influence.MaxIterations)
	v.SetDefault("influence.tolerance", d.Influence.Tolerance)
	v.SetDefault("influence.top_n", d.Influence.TopN)

	v.SetDefault("failure.decay_factor", d.Failure.DecayFactor)
	v.SetDefault("failure.threshold", d.Failure.Threshold)
	v.SetDefault("failure.max_steps", d.Failure.MaxSteps)

	v.SetDefault("build.aggregation", d.Build.Aggregation)
	v.SetDefault("build.clamp_tolerance", d.Build.ClampTolerance)

	v.SetDefault("data.companies", d.Data.Companies)
	v.SetDefault("data.assets", d.Data.Assets)
	v.SetDefault("data.sector_table", d.Data.SectorTable)
	v.SetDefault("data.regulated_sectors", d.Data.RegulatedSectors)
	v.SetDefault("data.reliance.revenue_share", d.Data.Reliance.RevenueShare)
	v.SetDefault("data.reliance.critical_service_share", d.Data.Reliance.CriticalServiceShare)
	v.SetDefault("data.reliance.client_share", d.Data.Reliance.ClientShare)
	v.SetDefault("data.reliance.capacity_share", d.Data.Reliance.CapacityShare)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.compress", d.Storage.Compress)
	v.SetDefault("storage.s3.bucket", d.Storage.S3.Bucket)
	v.SetDefault("storage.s3.prefix", d.Storage.S3.Prefix)
	v.SetDefault("storage.s3.region", d.Storage.S3.Region)
	v.SetDefault("storage.s3.profile", d.Storage.S3.Profile)
	v.SetDefault("storage.s3.endpoint", d.Storage.S3.Endpoint)
	v.SetDefault("storage.s3.use_path_style", d.Storage.S3.UsePathStyle)

	v.SetDefault("report.output", d.Report.Output)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("report.top_n", d.Report.TopN)
	v.SetDefault("report.blast_radius", d.Report.BlastRadius)
	v.SetDefault("report.metrics_file", d.Report.MetricsFile)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("workers", d.Workers)
}
