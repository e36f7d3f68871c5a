package common

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
	EnableGzip    = flag.Bool("enable-gzip", true, "compress JSON responses with gzip")
)

// explicitFlags records the flags given on the command line. They take
// precedence over config.ini and the environment.
var explicitFlags = map[string]bool{}

func recordExplicitFlags(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		explicitFlags[f.Name] = true
	})
}

// configKeys are the settings that may come from config.ini or the environment.
var configKeys = []string{
	"PORT", "SESSION_SECRET", "JWT_SECRET", "UPLOAD_PATH", "FRONTEND_PATH", "MAX_UPLOAD_SIZE",
	"STORE_TYPE", "SQLITE_PATH", "SQL_DSN", "ADMIN_USERNAME", "ADMIN_PASSWORD",
	"REDIS_CONN_STRING", "ENABLE_GZIP", "TRUSTED_PROXIES",
}

func PrintHelp() {
	fmt.Println("Archive Hub " + Version + " - archive file catalog server")
	fmt.Println("Usage: archive-hub [--port <port>] [--log-dir <log directory>] [--enable-gzip=false] [--version] [--help]")
	fmt.Println("Settings are read from $CONFIG_FILE or ~/.config/archive-hub/config.ini, then from the environment.")
}

// LoadConfig applies the config file and then environment overrides, except
// for settings already passed as command-line flags. A .env
// file in the working directory is loaded into the environment first; real
// environment variables win over it.
func LoadConfig() error {
	recordExplicitFlags(flag.CommandLine)
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := applyConfigMap(envConfigMap()); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	if *LogDir != "" {
		var err error
		*LogDir, err = filepath.Abs(*LogDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(*LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %s: %w", *LogDir, err)
		}
	}
	return nil
}

func envConfigMap() map[string]string {
	configMap := make(map[string]string)
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			configMap[key] = value
		}
	}
	return configMap
}
