package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3000\nSTORE_TYPE=memory\nUPLOAD_PATH=uploads\nENABLE_GZIP=true\nSESSION_SECRET=%s\nJWT_SECRET=%s\n"

func configFilePath() (string, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "archive-hub", "config.ini"), nil
}

func loadConfigFile() error {
	configPath, err := configFilePath()
	if err != nil {
		return err
	}
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}

	if err := applyConfigMap(configMap); err != nil {
		return fmt.Errorf("apply config file %s: %w", configPath, err)
	}

	return nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	content := fmt.Sprintf(defaultConfigTemplate, uuid.New().String(), uuid.New().String())
	if _, err := configFile.WriteString(content); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func applyConfigMap(configMap map[string]string) error {
	stringSettings := map[string]*string{
		"SESSION_SECRET":    &SessionSecret,
		"JWT_SECRET":        &JWTSecret,
		"UPLOAD_PATH":       &UploadPath,
		"FRONTEND_PATH":     &FrontendPath,
		"SQLITE_PATH":       &SQLitePath,
		"SQL_DSN":           &SQLDSN,
		"ADMIN_USERNAME":    &AdminUsername,
		"ADMIN_PASSWORD":    &AdminPassword,
		"REDIS_CONN_STRING": &RedisConnString,
		"TRUSTED_PROXIES":   &TrustedProxies,
	}
	for key, target := range stringSettings {
		if configValue, ok := configMap[key]; ok && configValue != "" {
			*target = configValue
		}
	}

	if configValue, ok := configMap["STORE_TYPE"]; ok && configValue != "" {
		switch storeType := strings.ToLower(configValue); storeType {
		case StoreTypeMemory, StoreTypeSQLite, StoreTypeMySQL:
			StoreType = storeType
		default:
			return fmt.Errorf("invalid value for STORE_TYPE: %q", configValue)
		}
	}

	if configValue, ok := configMap["PORT"]; ok && configValue != "" && !explicitFlags["port"] {
		portInt, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for PORT: %w", err)
		}
		*Port = portInt
	}

	if configValue, ok := configMap["MAX_UPLOAD_SIZE"]; ok && configValue != "" {
		size, err := strconv.ParseInt(configValue, 10, 64)
		if err != nil || size <= 0 {
			return fmt.Errorf("invalid value for MAX_UPLOAD_SIZE: %q", configValue)
		}
		MaxUploadSize = size
	}

	if configValue, ok := configMap["ENABLE_GZIP"]; ok && configValue != "" && !explicitFlags["enable-gzip"] {
		enableGzipBool, err := strconv.ParseBool(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for ENABLE_GZIP: %w", err)
		}
		*EnableGzip = enableGzipBool
	}

	return nil
}

// TrustedProxyList splits TrustedProxies; nil means no proxy is trusted.
func TrustedProxyList() []string {
	var proxies []string
	for _, proxy := range strings.Split(TrustedProxies, ",") {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	return proxies
}
