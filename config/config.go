package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	RatingAuto         = "auto"
	RatingChvatal      = "chvatal"
	RatingFrequency    = "frequency"
	RatingProbability  = "probability"
	RatingProbability2 = "probability2"

	OptInferior    = "inferior"
	OptAddOne      = "add_one"
	OptAddTwo      = "add_two"
	OptIterRemove  = "iter_remove"
	OptLocalSearch = "local_search"
)

// Selector configures the reduction of the candidate pool before the
// greedy solver runs. The capacity is MinSubsets, or at least Factor
// times the universe size when Factor is set. Both 0 disables it.
type Selector struct {
	MinSubsets int     `yaml:"min_subsets" json:"min_subsets,omitempty"`
	MinCover   int     `yaml:"min_cover" json:"min_cover,omitempty"`
	Factor     float64 `yaml:"factor" json:"factor,omitempty"`
}

type Config struct {
	Seed              int64    `yaml:"seed" json:"seed,omitempty"`
	Iterations        int      `yaml:"iterations" json:"iterations,omitempty"`
	Rating            string   `yaml:"rating" json:"rating,omitempty"`
	Selector          Selector `yaml:"selector" json:"selector,omitempty"`
	Optimizations     []string `yaml:"optimizations" json:"optimizations,omitempty"`
	FullOptBorder     int      `yaml:"full_opt_border" json:"full_opt_border,omitempty"`
	TabooChangeFactor int      `yaml:"taboo_change_factor" json:"taboo_change_factor,omitempty"`
	MemoryEfficient   bool     `yaml:"memory_efficient" json:"memory_efficient,omitempty"`
	Portfolio         int      `yaml:"portfolio" json:"portfolio,omitempty"`
	Decompose         bool     `yaml:"decompose" json:"decompose,omitempty"`
	LogLevel          string   `yaml:"log_level" json:"log_level,omitempty"`
}

func Default() Config {
	return Config{
		Seed:              1,
		Iterations:        10,
		Rating:            RatingAuto,
		Optimizations:     []string{OptInferior, OptAddOne, OptLocalSearch},
		FullOptBorder:     8,
		TabooChangeFactor: 10,
		Portfolio:         1,
		LogLevel:          "info",
	}
}

// Load reads a YAML file over the defaults. SETCOVER_SEED and
// SETCOVER_LOG_LEVEL override the file. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if v := os.Getenv("SETCOVER_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.Wrap(err, "SETCOVER_SEED")
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("SETCOVER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return errors.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	switch c.Rating {
	case RatingAuto, RatingChvatal, RatingFrequency, RatingProbability, RatingProbability2:
	default:
		return errors.Errorf("unknown rating %q", c.Rating)
	}
	for _, o := range c.Optimizations {
		switch o {
		case OptInferior, OptAddOne, OptAddTwo, OptIterRemove, OptLocalSearch:
		default:
			return errors.Errorf("unknown optimization %q", o)
		}
	}
	if c.Selector.MinSubsets < 0 || c.Selector.Factor < 0 {
		return errors.New("selector capacity cannot be negative")
	}
	if c.FullOptBorder < 0 || c.TabooChangeFactor < 0 {
		return errors.New("optimizer limits cannot be negative")
	}
	if c.Portfolio < 1 {
		return errors.Errorf("portfolio needs at least one solver, got %d", c.Portfolio)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level is the parsed log level, info when invalid.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
