package loader

import "github.com/caarlos0/env/v6"

// Config is the loader's environment-driven configuration: the directory
// holding builtins.aaa. AAA_STDLIB_PATH must be set; LoadConfig returns an
// error when it is not.
type Config struct {
	StdlibPath string `env:"AAA_STDLIB_PATH,required"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
