package config

import (
	"errors"
	"strings"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/report"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/storage"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// Validate checks every section and returns all problems at once.
func (c Config) Validate() error {
	cv := validation.NewConfigValidator("Config").
		UnitInterval("influence.damping", c.Influence.Damping).
		MinInt("influence.max_iterations", c.Influence.MaxIterations, 1).
		Finite("influence.tolerance", c.Influence.Tolerance).
		PositiveFloat("influence.tolerance", c.Influence.Tolerance).
		NonNegative("influence.top_n", c.Influence.TopN).
		UnitInterval("failure.decay_factor", c.Failure.DecayFactor).
		UnitInterval("failure.threshold", c.Failure.Threshold).
		NonNegative("failure.max_steps", c.Failure.MaxSteps).
		Custom("build", func() error { return c.BuildOptions(nil).Validate() }).
		Custom("data.reliance", c.Data.Reliance.Validate).
		OneOf("storage.backend", c.Storage.Backend, []string{storage.BackendLocal, storage.BackendS3}).
		When(c.Storage.Backend == storage.BackendS3, func(cv *validation.ConfigValidator) {
			cv.Required("storage.s3.bucket", c.Storage.S3.Bucket)
		}).
		When(c.Storage.Backend == storage.BackendLocal, func(cv *validation.ConfigValidator) {
			cv.Required("storage.dir", c.Storage.Dir)
		}).
		Custom("report.format", func() error {
			_, err := report.ParseFormat(c.Report.Format)
			return err
		}).
		NonNegative("report.top_n", c.Report.TopN).
		OneOf("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "warning", "error"}).
		NonNegative("workers", c.Workers)

	if c.Data.Companies == "" && c.Data.Assets != "" {
		cv.Custom("data.companies", func() error {
			return errors.New("assets given without companies")
		})
	}
	return cv.Validate()
}
