package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTPServer struct {
		Host           string `koanf:"host"`
		Port           int    `koanf:"port"`
		MaxHeaderBytes int    `koanf:"maxHeaderBytes"`
		Timeout        struct {
			Read       time.Duration `koanf:"read"`
			Write      time.Duration `koanf:"write"`
			Idle       time.Duration `koanf:"idle"`
			ReadHeader time.Duration `koanf:"readHeader"`
			Shutdown   time.Duration `koanf:"shutdown"`
		} `koanf:"timeout"`
	} `koanf:"server"`

	Storage struct {
		Dir          string `koanf:"dir"`
		UsersFile    string `koanf:"usersFile"`
		ProductsFile string `koanf:"productsFile"`
		OrdersFile   string `koanf:"ordersFile"`
	} `koanf:"storage"`

	Staff struct {
		Codes []string `koanf:"codes"`
	} `koanf:"staff"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	PProf struct {
		Enabled bool   `koanf:"enabled"`
		Addr    string `koanf:"addr"`
	} `koanf:"pprof"`
}

func (c Config) String() string {
	return fmt.Sprintf("server.host=%s, server.port=%d, server.maxHeaderBytes=%d, server.timeout.read=%v, server.timeout.write=%v, server.timeout.idle=%v, server.timeout.readHeader=%v, server.timeout.shutdown=%v, storage.dir=%s, storage.files=[%s %s %s], staff.codes=%s, log.level=%s, pprof.enabled=%t.",
		c.HTTPServer.Host,
		c.HTTPServer.Port,
		c.HTTPServer.MaxHeaderBytes,
		c.HTTPServer.Timeout.Read,
		c.HTTPServer.Timeout.Write,
		c.HTTPServer.Timeout.Idle,
		c.HTTPServer.Timeout.ReadHeader,
		c.HTTPServer.Timeout.Shutdown,
		c.Storage.Dir,
		c.Storage.UsersFile,
		c.Storage.ProductsFile,
		c.Storage.OrdersFile,
		maskCodes(c.Staff.Codes),
		c.Log.Level,
		c.PProf.Enabled)
}

// maskCodes hides staff codes, only their count is printed.
func maskCodes(codes []string) string {
	if len(codes) == 0 {
		return "<not configured>"
	}
	return fmt.Sprintf("<%d masked>", len(codes))
}

const (
	envPrefix      = "retail_"
	defaultEnvFile = ".env"
	configFile     = "config.yaml"
)

// defaults keep the data file names and staff codes the shop has always used.
var defaults = map[string]any{
	"server.host":               "127.0.0.1",
	"server.port":               8080,
	"server.maxHeaderBytes":     1 << 20,
	"server.timeout.read":       "10s",
	"server.timeout.write":      "10s",
	"server.timeout.idle":       "60s",
	"server.timeout.readHeader": "5s",
	"server.timeout.shutdown":   "30s",
	"storage.dir":               "data",
	"storage.usersFile":         "users.txt",
	"storage.productsFile":      "products.txt",
	"storage.ordersFile":        "orders.txt",
	"staff.codes":               []string{"mahvil", "ayesha"},
	"log.level":                 "info",
	"pprof.enabled":             false,
	"pprof.addr":                "127.0.0.1:6060",
}

// Load reads the configuration from defaults, a file and environment variables
func Load() (*Config, error) {
	return load(configFile, defaultEnvFile)
}

func load(yamlPath, envPath string) (*Config, error) {
	// Create a new Koanf instance
	var k = koanf.New(".")

	// 0. Built-in defaults, the lowest priority
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config: %v", err)
		}
	}

	// 2. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(envPath); err == nil {
		envMap := make(map[string]interface{})
		for key, value := range envFileMap {
			envMap[keyTransformer(key)] = transformValue(keyTransformer(key), value)
		}
		// Load the envMap into Koanf
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.ProviderWithValue(strings.ToUpper(envPrefix), ".", func(key, value string) (string, any) {
		key = keyTransformer(key)
		return key, transformValue(key, value)
	}), nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	var cfg Config
	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig checks if the configuration values are valid
func validateConfig(cfg Config) error {
	if cfg.HTTPServer.Port <= 0 || cfg.HTTPServer.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", cfg.HTTPServer.Port)
	}
	if cfg.HTTPServer.Timeout.Read <= 0 {
		return fmt.Errorf("invalid HTTP server read timeout: %v", cfg.HTTPServer.Timeout.Read)
	}
	if cfg.HTTPServer.Timeout.Write <= 0 {
		return fmt.Errorf("invalid HTTP server write timeout: %v", cfg.HTTPServer.Timeout.Write)
	}
	if cfg.HTTPServer.Timeout.Idle <= 0 {
		return fmt.Errorf("invalid HTTP server idle timeout: %v", cfg.HTTPServer.Timeout.Idle)
	}
	if cfg.HTTPServer.Timeout.Shutdown <= 0 {
		return fmt.Errorf("invalid HTTP server shutdown timeout: %v", cfg.HTTPServer.Timeout.Shutdown)
	}
	for name, value := range map[string]string{
		"users":    cfg.Storage.UsersFile,
		"products": cfg.Storage.ProductsFile,
		"orders":   cfg.Storage.OrdersFile,
	} {
		if value == "" || strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("invalid %s file name: %q", name, value)
		}
	}
	if cfg.PProf.Enabled && cfg.PProf.Addr == "" {
		return fmt.Errorf("pprof is enabled but pprof.addr is empty")
	}
	return nil
}

// keyTransformer transforms environment variable keys to match the expected format
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ReplaceAll(key, "_", ".")
}

// transformValue splits list settings given as comma separated env values.
func transformValue(key, value string) any {
	if key == "staff.codes" {
		return strings.Split(value, ",")
	}
	return value
}
