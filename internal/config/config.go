/*
fixmessage — FIX message parsing and validation
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/

// Package config loads the fixmessage CLI settings. Values come from, in
// increasing priority: defaults, an optional config file, FIXMESSAGE_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/net/html/charset"
)

const EnvPrefix = "FIXMESSAGE"

type Config struct {
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Colour      string `mapstructure:"colour" validate:"oneof=auto yes no"`
	Obfuscate   bool   `mapstructure:"obfuscate"`
	Charset     string `mapstructure:"charset" validate:"omitempty,charset"`
	MetricsFile string `mapstructure:"metrics_file"`
	Strict      bool   `mapstructure:"strict"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"colour":       "colour",
	"obfuscate":    "obfuscate",
	"charset":      "charset",
	"metrics-file": "metrics_file",
	"strict":       "strict",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("colour", "auto")
	v.SetDefault("obfuscate", false)
	v.SetDefault("charset", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("strict", false)
}

// Load reads the configuration. configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Colour = strings.ToLower(cfg.Colour)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("charset", validCharset); err != nil {
		panic(fmt.Sprintf("config: register charset validation: %v", err))
	}
	return v
}

func validCharset(fl validator.FieldLevel) bool {
	enc, _ := charset.Lookup(fl.Field().String())
	return enc != nil
}

// Validate checks every field and reports all failures at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s=%q fails %s", fe.Field(), fe.Value(), describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
