package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbomb79/Snatch/internal/api"
	"github.com/hbomb79/Snatch/internal/extractor"
	"github.com/hbomb79/Snatch/internal/trim"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// SnatchConfig is the struct used to contain the various user
	// config supplied by file, environment, or manually in code.
	SnatchConfig struct {
		Rest      api.RestConfig   `yaml:"api"`
		Download  DownloadConfig   `yaml:"download"`
		Extractor extractor.Config `yaml:"extractor"`
		Trimmer   trim.Config      `yaml:"trimmer"`
		Store     StoreConfig      `yaml:"store"`
	}

	// DownloadConfig is the subset of the configuration concerning the
	// download pipeline itself.
	DownloadConfig struct {
		WorkspaceRoot string `yaml:"workspace_root" env:"WORKSPACE_ROOT" env-default:"/tmp/snatch/workspaces"`
	}

	// StoreConfig decides where the flat-file record collections live.
	// Each collection gets its own directory beneath the data dir.
	StoreConfig struct {
		DataDirPath string `yaml:"data_dir" env:"DATA_DIR" env-default:"./data"`
	}
)

// Load populates the config from a YAML file merged with environment
// overrides. A missing config file is not an error; the environment
// (and the env-default tags) alone configure the service in that case.
func (config *SnatchConfig) Load(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, config); err != nil {
			return fmt.Errorf("failed to load configuration from '%s': %w", configPath, err)
		}

		return nil
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	return nil
}

func (config *StoreConfig) stylesDirPath() string  { return filepath.Join(config.DataDirPath, "styles") }
func (config *StoreConfig) imagesDirPath() string  { return filepath.Join(config.DataDirPath, "images") }
func (config *StoreConfig) promptsDirPath() string { return filepath.Join(config.DataDirPath, "prompts") }
