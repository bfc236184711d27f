package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:   "vsabench",
		Short: "Benchmark runner for sparse ternary VSA engines",
		Long: `vsabench generates deterministic sparse ternary datasets and measures
vector-algebra, retrieval and I/O performance. Benchmark commands write a
JSON report to stdout or --out; logs go to stderr.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		NewGenerateDatasetCmd(a),
		NewDatasetInfoCmd(a),
		NewFetchDatasetCmd(a),
		NewVSACmd(a),
		NewRetrievalCmd(a),
		NewHierarchicalCmd(a),
		NewIOCmd(a),
		NewEncodeCmd(a),
		NewSuiteCmd(a),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "YAML configuration file")
	cmd.PersistentFlags().String("profile", "quick", "Measurement profile (quick|full)")
	cmd.PersistentFlags().Uint64("seed", 0, "Run seed recorded in the report")
	cmd.PersistentFlags().String("out", "", "Write the JSON report to FILE instead of stdout")
	cmd.PersistentFlags().String("metrics-file", "", "Also write the report as a Prometheus textfile")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text|json)")
}
