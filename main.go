package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"setcover/config"
	"setcover/orlib"
	"setcover/report"
	"setcover/server"
	"setcover/solver"
)

var (
	configPath  string
	format      string
	logLevel    string
	seed        int64
	portfolio   int
	addr        string
	maxBody     int64
	maxUniverse int
)

var rootCmd = &cobra.Command{
	Use:           "setcover",
	Short:         "Heuristic solver for weighted set covering problems",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Solve an instance and print the cover",
	Long: `Reads an instance in OR-Library, Rail or BHOSLIB "p set" format,
solves it with the iterated greedy heuristic and prints the cover.

Examples:
  setcover solve scp41.txt
  setcover solve rail507 --format rail --portfolio 4
  setcover solve frb30-15-1.msc --format xu --config solver.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print statistics of an instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /solve and GET /health",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML solver configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the configuration")
	for _, cmd := range []*cobra.Command{solveCmd, statsCmd} {
		cmd.Flags().StringVarP(&format, "format", "f", orlib.FormatOR, "instance format: or, rail or xu")
	}
	solveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, overrides the configuration")
	solveCmd.Flags().IntVar(&portfolio, "portfolio", 0, "number of solvers run in parallel, overrides the configuration")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")
	serveCmd.Flags().IntVar(&maxUniverse, "max-universe", server.DefaultMaxUniverse, "maximum universe size of a request")
	rootCmd.AddCommand(solveCmd, statsCmd, serveCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("portfolio") {
		cfg.Portfolio = portfolio
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logrus.SetLevel(cfg.Level())
	return cfg, nil
}

func readInstance(path string) (*orlib.Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing instance file")
		}
	}()
	inst, err := orlib.Parse(format, filepath.Base(path), file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return inst, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	inst, err := readInstance(args[0])
	if err != nil {
		return err
	}
	c, err := solver.New(cfg)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"universe": inst.Family.Universe(),
		"subsets":  inst.Family.Len(),
	}).Info("Instance loaded")
	start := time.Now()
	result, err := c.Cover(inst.Family, nil)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Render(report.Result{
		Name:       filepath.Base(args[0]),
		Problem:    inst.Family,
		Cover:      result,
		Duplicates: inst.Duplicates,
		Elapsed:    time.Since(start),
		Statistics: c.Statistics(),
	}))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	inst, err := readInstance(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), inst.Family.Statistics())
	if inst.Duplicates > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "duplicate subsets dropped: %d\n", inst.Duplicates)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logrus.WithField("addr", addr).Info("Listening")
	return http.ListenAndServe(addr, server.NewHandler(cfg, server.WithLimits(maxBody, maxUniverse)))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("setcover failed")
		os.Exit(1)
	}
}
