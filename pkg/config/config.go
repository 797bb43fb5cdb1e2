package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del terminal POS (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env        string // development, staging, production
	Name       string
	StoreName  string // nombre de la tienda en cabeceras e impresiones
	TerminalID string // identifica el terminal cuando la sesión vive en Redis
}

// HTTPConfig configuración del servidor local de pantallas.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig ubicación del backend REST (colaborador externo).
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout devuelve el timeout por petición.
func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig almacenamiento durable de la sesión.
// Driver: "file" (por defecto), "redis" o "memory".
type SessionConfig struct {
	Driver string
	Path   string
	Secret string // si no está vacío, los valores se cifran en reposo
}

// RedisConfig conexión opcional para SESSION_DRIVER=redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig nivel de log.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, SESSION_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			Name:       getString(v, "APP_NAME", "tokobangunan-pos"),
			StoreName:  getString(v, "STORE_NAME", "Toko Bangunan"),
			TerminalID: getString(v, "TERMINAL_ID", "kasir-1"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getString(v, "BACKEND_URL", "http://localhost:5000"), "/"),
			TimeoutSeconds: getInt(v, "BACKEND_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Driver: strings.ToLower(getString(v, "SESSION_DRIVER", "file")),
			Path:   getString(v, "SESSION_PATH", defaultSessionPath()),
			Secret: getString(v, "SESSION_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "127.0.0.1:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	switch cfg.Session.Driver {
	case "file", "redis", "memory":
	default:
		return nil, fmt.Errorf("config: SESSION_DRIVER desconocido %q", cfg.Session.Driver)
	}
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config: BACKEND_URL vacío")
	}
	return cfg, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "session.json")
	}
	return filepath.Join(home, ".tokobangunan", "session.json")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
