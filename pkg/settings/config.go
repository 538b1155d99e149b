package settings

import (
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the settings store on disk.
type Config interface {
	BasePath() string
}

// LoadConfig resolves the store path from a .tally config file, the TALLY_*
// environment, or the default under the user's home directory.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.tally.db")
	viper.SetConfigName(".tally") // .yaml is implicit
	viper.SetEnvPrefix("TALLY")
	viper.AutomaticEnv()

	if override := os.Getenv("TALLY_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	path := viper.GetString("path")
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}

	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}
