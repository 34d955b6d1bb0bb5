package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Convert  ConvertConfig  `mapstructure:"convert"`
	Download DownloadConfig `mapstructure:"download"`
	FFmpeg   FFmpegConfig   `mapstructure:"ffmpeg"`
	LogLevel string         `mapstructure:"log_level"`
}

type PathsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	SaveDir   string `mapstructure:"save_dir"`
}

type ConvertConfig struct {
	SampleRate int     `mapstructure:"sample_rate"`
	Resample   bool    `mapstructure:"resample"`
	TrainRatio float64 `mapstructure:"train_ratio"`
	// Seed of 0 seeds the train/valid split from the clock.
	Seed int64 `mapstructure:"seed"`
}

type DownloadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Quiet   bool          `mapstructure:"quiet"`
}

type FFmpegConfig struct {
	Path string `mapstructure:"path"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps command line flags to their configuration keys.
var flagKeys = map[string]string{
	"output-dir":       "paths.output_dir",
	"save-dir":         "paths.save_dir",
	"sample-rate":      "convert.sample_rate",
	"resample":         "convert.resample",
	"train-ratio":      "convert.train_ratio",
	"seed":             "convert.seed",
	"download-timeout": "download.timeout",
	"quiet":            "download.quiet",
	"ffmpeg-path":      "ffmpeg.path",
	"log-level":        "log_level",
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			OutputDir: "/tmp/data",
			SaveDir:   "",
		},
		Convert: ConvertConfig{
			SampleRate: 22050,
			Resample:   true,
			TrainRatio: 0.98,
			Seed:       0,
		},
		Download: DownloadConfig{
			Timeout: 0,
			Quiet:   false,
		},
		FFmpeg: FFmpegConfig{
			Path: "ffmpeg",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.StringP("output-dir", "o", defaults.Paths.OutputDir, "Place to store the converted data")
	fs.StringP("save-dir", "s", defaults.Paths.SaveDir, "Place to store the downloaded zip files")
	fs.Int("sample-rate", defaults.Convert.SampleRate, "Sample rate of the converted wav files")
	fs.Bool("resample", defaults.Convert.Resample, "Resample clips to --sample-rate (false keeps the samples and only relabels the rate)")
	fs.Float64("train-ratio", defaults.Convert.TrainRatio, "Probability that an utterance lands in train.txt instead of valid.txt")
	fs.Int64("seed", defaults.Convert.Seed, "Seed for the train/valid split (0 = random)")
	fs.Duration("download-timeout", defaults.Download.Timeout, "Timeout for a single archive download (0 = none)")
	fs.Bool("quiet", defaults.Download.Quiet, "Do not print download progress")
	fs.String("ffmpeg-path", defaults.FFmpeg.Path, "Path to the ffmpeg executable used to decode non-wav clips")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("VOICEDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	if err := v.BindEnv("ffmpeg.path", "VOICEDATA_FFMPEG_PATH", "FFMPEG_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind ffmpeg env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("voicedata")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
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

// Validate rejects values the converter cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("output dir must not be empty")
	}
	if c.Convert.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate %d", c.Convert.SampleRate)
	}
	if c.Convert.TrainRatio < 0 || c.Convert.TrainRatio > 1 {
		return fmt.Errorf("train ratio %v out of range [0, 1]", c.Convert.TrainRatio)
	}
	if c.Download.Timeout < 0 {
		return fmt.Errorf("negative download timeout %s", c.Download.Timeout)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.output_dir", c.Paths.OutputDir)
	v.SetDefault("paths.save_dir", c.Paths.SaveDir)
	v.SetDefault("convert.sample_rate", c.Convert.SampleRate)
	v.SetDefault("convert.resample", c.Convert.Resample)
	v.SetDefault("convert.train_ratio", c.Convert.TrainRatio)
	v.SetDefault("convert.seed", c.Convert.Seed)
	v.SetDefault("download.timeout", c.Download.Timeout)
	v.SetDefault("download.quiet", c.Download.Quiet)
	v.SetDefault("ffmpeg.path", c.FFmpeg.Path)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds every known flag present in fs to its nested key. Flags
// missing from fs are skipped so subcommands can carry a subset.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}
