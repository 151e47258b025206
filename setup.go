// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// envKeys are bound explicitly so that UnmarshalKey sees them even when no
// configuration file sets them, i.e. HEBE_STORE_DYNAMO_TABLE.
var envKeys = []string{
	"logging.level",
	"store.dynamo.table",
	"store.dynamo.region",
	"store.dynamo.endpoint",
	"store.dynamo.consistentRead",
	"segment.enabled",
	"segment.region",
	"locator.format",
	"ingest.failOnItemError",
	"prometheus.pushgateway",
	"tracing.provider",
	"tracing.endpoint",
}

func setupFlagSet(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "the configuration file to use.  Overrides the search path.")
	fs.BoolP("debug", "d", false, "enables debug logging.  Overrides configuration.")
	fs.BoolP("version", "v", false, "print version and exit")
	fs.StringP("event", "e", "", "process the event in this json file once and exit, instead of running as a lambda function")
	fs.String("env-file", "", "a .env file to load into the environment before reading configuration")
}

func setup(args []string) (*viper.Viper, *zap.Logger, *pflag.FlagSet, error) {
	l, err := zap.NewDevelopment() // initial value
	if err != nil {
		return nil, l, nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	err = fs.Parse(args)
	if err != nil {
		return nil, l, fs, fmt.Errorf("failed to create parse args: %w", err)
	}
	if printVersion, _ := fs.GetBool("version"); printVersion {
		printVersionInfo()
	}

	if envFile, _ := fs.GetString("env-file"); len(envFile) > 0 {
		if err = godotenv.Load(envFile); err != nil {
			return nil, l, fs, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err = v.BindEnv(key); err != nil {
			return nil, l, fs, fmt.Errorf("failed to bind environment variable: %w", err)
		}
	}

	if file, _ := fs.GetString("file"); len(file) > 0 {
		v.SetConfigFile(file)
		err = v.ReadInConfig()
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(".")
		err = v.ReadInConfig()

		// lambda deployments are configured through the environment alone
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			err = nil
		}
	}
	if err != nil {
		return v, l, fs, fmt.Errorf("failed to read config file: %w", err)
	}

	// UnmarshalKey only sees environment values that are part of the
	// configuration map.
	if err = v.MergeConfigMap(v.AllSettings()); err != nil {
		return v, l, fs, fmt.Errorf("failed to merge environment: %w", err)
	}

	// one-shot event runs without a configured backend keep records in memory
	eventFile, _ := fs.GetString("event")
	if len(eventFile) > 0 && !v.IsSet("store.dynamo") && !v.IsSet("store.yugabyte") {
		err = v.MergeConfigMap(map[string]interface{}{
			"store": map[string]interface{}{"inmem": true},
		})
		if err != nil {
			return v, l, fs, err
		}
	}

	if debug, _ := fs.GetBool("debug"); debug {
		err = v.MergeConfigMap(map[string]interface{}{
			"logging": map[string]interface{}{"level": "DEBUG"},
		})
		if err != nil {
			return v, l, fs, err
		}
	}

	var c sallust.Config
	err = v.UnmarshalKey("logging", &c, arrange.ComposeDecodeHooks(sallust.DecodeHook))
	if err != nil {
		return v, l, fs, err
	}

	l, err = c.Build()
	return v, l, fs, err
}

func printVersionInfo() {
	fmt.Fprintf(os.Stdout, "%s:\n", applicationName)
	fmt.Fprintf(os.Stdout, "  version: \t%s\n", Version)
	fmt.Fprintf(os.Stdout, "  go version: \t%s\n", runtime.Version())
	fmt.Fprintf(os.Stdout, "  built time: \t%s\n", BuildTime)
	fmt.Fprintf(os.Stdout, "  git commit: \t%s\n", GitCommit)
	fmt.Fprintf(os.Stdout, "  os/arch: \t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	os.Exit(0)
}
