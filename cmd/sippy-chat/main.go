// sippy-chat analyzes CI job run artifacts: it parses jUnit XML and
// aggregated job summaries, separates genuine failures from flakes, and
// prints categorized, deduplicated failure reports for operators.
package main

import (
	goflag "flag"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stbenjam/sippy-chat/pkg/testanalysis"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &cobra.Command{
		Use:          "sippy-chat",
		Long:         `Commands for analyzing CI job run test artifacts`,
		SilenceUsage: true,
	}
	cmd.AddCommand(testanalysis.NewAnalyzeJUnitCommand())
	cmd.AddCommand(testanalysis.NewAnalyzeAggregatedCommand())

	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
