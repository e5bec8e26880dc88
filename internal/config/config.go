package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names the storage adapter selected at process start. The
// selection is immutable for the process lifetime.
const (
	BackendMongo = "mongo"
	BackendMySQL = "mysql"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Storage StorageConfig `json:"storage"`
	Crypto  CryptoConfig  `json:"crypto"`
	Polling PollingConfig `json:"polling"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
}

// StorageConfig selects the backend and carries the connection settings
// for whichever one is active.
type StorageConfig struct {
	Backend string `json:"backend"` // mongo or mysql

	MySQLHost     string `json:"mysql_host"`
	MySQLPort     string `json:"mysql_port"`
	MySQLUser     string `json:"mysql_user"`
	MySQLPassword string `json:"mysql_password"`
	MySQLDatabase string `json:"mysql_database"`

	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`
}

// CryptoConfig carries the key-derivation secrets. MasterSecret empty means
// a random secret is generated and persisted at KeyFile on first use.
// LegacySecret, when set, is tried once on decryption failure for data
// written under an older secret.
type CryptoConfig struct {
	MasterSecret string `json:"-"`
	LegacySecret string `json:"-"`
	KeyFile      string `json:"key_file"`
}

// PollingConfig tunes the subscription emulation used against a pull-only
// backend. Messages poll faster than conversations.
type PollingConfig struct {
	MessageIntervalSeconds      int `json:"message_interval_seconds"`
	ConversationIntervalSeconds int `json:"conversation_interval_seconds"`
}

// Load reads configuration from the environment, with .env support for
// development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system env variables")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		},
		Storage: StorageConfig{
			Backend:       getEnv("CHAT_BACKEND", BackendMongo),
			MySQLHost:     getEnv("MYSQL_HOST", "localhost"),
			MySQLPort:     getEnv("MYSQL_PORT", "3306"),
			MySQLUser:     getEnv("MYSQL_USER", "root"),
			MySQLPassword: getEnv("MYSQL_PASSWORD", ""),
			MySQLDatabase: getEnv("MYSQL_DATABASE", "goconvo"),
			MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGO_DATABASE", "goconvo"),
		},
		Crypto: CryptoConfig{
			MasterSecret: getEnv("CHAT_MASTER_SECRET", ""),
			LegacySecret: getEnv("CHAT_LEGACY_SECRET", ""),
			KeyFile:      getEnv("CHAT_KEY_FILE", ".goconvo/master.key"),
		},
		Polling: PollingConfig{
			MessageIntervalSeconds:      getEnvInt("POLL_MESSAGE_INTERVAL", 2),
			ConversationIntervalSeconds: getEnvInt("POLL_CONVERSATION_INTERVAL", 6),
		},
	}
}

// MySQLDSN builds the GORM connection string.
func (cfg *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Storage.MySQLUser,
		cfg.Storage.MySQLPassword,
		cfg.Storage.MySQLHost,
		cfg.Storage.MySQLPort,
		cfg.Storage.MySQLDatabase,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
