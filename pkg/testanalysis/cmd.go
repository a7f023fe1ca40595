package testanalysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stbenjam/sippy-chat/pkg/aggregation"
	"github.com/stbenjam/sippy-chat/pkg/artifacts"
	"github.com/stbenjam/sippy-chat/pkg/junit"
)

type AnalyzeFlags struct {
	ArtifactURL  string
	ArtifactPath string

	FetchTimeout           time.Duration
	MaxArtifactBytes       int
	MaxTestCases           int
	MaxExamplesPerCategory int
}

func NewAnalyzeFlags() *AnalyzeFlags {
	return &AnalyzeFlags{
		FetchTimeout:           60 * time.Second,
		MaxArtifactBytes:       junit.DefaultMaxBytes,
		MaxTestCases:           junit.DefaultMaxTestCases,
		MaxExamplesPerCategory: 5,
	}
}

func (f *AnalyzeFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ArtifactURL, "artifact-url", f.ArtifactURL, "URL of the artifact to analyze, like .../artifacts/junit-aggregated.xml")
	fs.StringVar(&f.ArtifactPath, "artifact-path", f.ArtifactPath, "Local path to the artifact to analyze, mutually exclusive with --artifact-url")
	fs.DurationVar(&f.FetchTimeout, "fetch-timeout", f.FetchTimeout, "Time to wait for the artifact fetch to complete")
	fs.IntVar(&f.MaxArtifactBytes, "max-artifact-bytes", f.MaxArtifactBytes, "Largest artifact we are willing to process")
	fs.IntVar(&f.MaxTestCases, "max-test-cases", f.MaxTestCases, "Most test cases one document may hold")
	fs.IntVar(&f.MaxExamplesPerCategory, "max-examples", f.MaxExamplesPerCategory, "Most representative failures to print per category")
}

// Validate checks to see if the user-input is likely to produce functional runtime options
func (f *AnalyzeFlags) Validate() error {
	if len(f.ArtifactURL) == 0 && len(f.ArtifactPath) == 0 {
		return fmt.Errorf("exactly one of --artifact-url or --artifact-path must be specified")
	}
	if len(f.ArtifactURL) > 0 && len(f.ArtifactPath) > 0 {
		return fmt.Errorf("cannot specify both --artifact-url and --artifact-path")
	}
	if f.MaxExamplesPerCategory < 1 {
		return fmt.Errorf("--max-examples must be at least 1")
	}
	return nil
}

// ToOptions goes from the user input to the runtime values needed to run the command.
func (f *AnalyzeFlags) ToOptions(aggregated bool) *AnalyzeOptions {
	log := logrus.WithField("component", "test-analysis")
	return &AnalyzeOptions{
		analyzer: NewAnalyzer(nil, &junit.ParseOptions{
			MaxBytes:     f.MaxArtifactBytes,
			MaxTestCases: f.MaxTestCases,
		}),
		fetcher:                artifacts.NewHTTPFetcher(f.FetchTimeout, int64(f.MaxArtifactBytes), log),
		artifactURL:            f.ArtifactURL,
		artifactPath:           f.ArtifactPath,
		maxExamplesPerCategory: f.MaxExamplesPerCategory,
		aggregated:             aggregated,
		log:                    log,
		out:                    os.Stdout,
	}
}

type AnalyzeOptions struct {
	analyzer *Analyzer
	fetcher  artifacts.Fetcher

	artifactURL            string
	artifactPath           string
	maxExamplesPerCategory int
	aggregated             bool

	log *logrus.Entry
	out io.Writer
}

func (o *AnalyzeOptions) Run(ctx context.Context) error {
	raw, location, err := o.artifactContent(ctx)
	if err != nil {
		return o.operatorError(err, location)
	}

	var report *AnalysisReport
	if o.aggregated {
		report, err = o.analyzer.AnalyzeAggregated(string(raw))
	} else {
		report, err = o.analyzer.AnalyzeJUnit(string(raw))
	}
	if err != nil {
		return o.operatorError(err, location)
	}

	fmt.Fprint(o.out, FormatReport(report, o.maxExamplesPerCategory))
	return nil
}

func (o *AnalyzeOptions) artifactContent(ctx context.Context) ([]byte, string, error) {
	if len(o.artifactPath) > 0 {
		raw, err := os.ReadFile(o.artifactPath)
		return raw, o.artifactPath, err
	}
	raw, err := o.fetcher.Fetch(ctx, o.artifactURL)
	return raw, o.artifactURL, err
}

// operatorError logs the full failure for debugging but hands back only the
// error kind and artifact location; raw parser output never reaches users.
func (o *AnalyzeOptions) operatorError(err error, location string) error {
	o.log.WithError(err).WithField("artifact", location).Error("analysis failed")
	return fmt.Errorf("%s: %s", errorKind(err), location)
}

func errorKind(err error) string {
	var sizeLimitErr *junit.SizeLimitError
	var junitErr *junit.ParseError
	var aggregationErr *aggregation.ParseError
	var fetchErr *artifacts.FetchError
	switch {
	case errors.As(err, &sizeLimitErr):
		return "artifact exceeds the analysis size limits"
	case errors.As(err, &junitErr):
		return "artifact is not a well-formed jUnit document"
	case errors.As(err, &aggregationErr):
		return "artifact does not hold a valid aggregated test summary"
	case errors.As(err, &fetchErr):
		return "failed to fetch artifact"
	default:
		return "failed to analyze artifact"
	}
}

func NewAnalyzeJUnitCommand() *cobra.Command {
	f := NewAnalyzeFlags()

	cmd := &cobra.Command{
		Use:          "analyze-junit",
		Long:         `Parse a jUnit XML artifact, separate failures from flakes, and print a categorized summary.`,
		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				logrus.WithError(err).Fatal("Flags are invalid")
			}
			return f.ToOptions(false).Run(cmd.Context())
		},

		Args: noArgs,
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

func NewAnalyzeAggregatedCommand() *cobra.Command {
	f := NewAnalyzeFlags()

	cmd := &cobra.Command{
		Use:          "analyze-aggregated",
		Long:         `Parse an aggregated job summary artifact and print per-run pass/fail analysis.`,
		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				logrus.WithError(err).Fatal("Flags are invalid")
			}
			return f.ToOptions(true).Run(cmd.Context())
		},

		Args: noArgs,
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if len(arg) > 0 {
			return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
		}
	}
	return nil
}
