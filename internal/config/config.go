package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type StorageBackend string

const (
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendSQLite   StorageBackend = "sqlite"
	StorageBackendRedis    StorageBackend = "redis"
)

type Config struct {
	Port     string
	LogLevel string

	StorageBackend StorageBackend

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	SQLitePath string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// AMQPURL left empty disables publishing of committed transactions.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	OperatorWorkers int

	// DefaultOwnerID starts a ledger session at boot when set.
	DefaultOwnerID string
}

// ProcessEnvironmentVariables reads a .env file when one exists and then
// applies environment overrides on top of the defaults.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "9446",
		LogLevel:         "info",
		StorageBackend:   StorageBackendMemory,
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		SQLitePath:       "./data/wallet.db",
		RedisAddress:     "localhost:6379",
		AMQPExchange:     "wallet",
		AMQPRoutingKey:   "ledger.committed",
		OperatorWorkers:  1,
	}

	overrideString(&env.Port, "PORT")
	overrideString(&env.LogLevel, "LOG_LEVEL")
	overrideString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	overrideString(&env.PostgresPort, "POSTGRES_PORT")
	overrideString(&env.PostgresDB, "POSTGRES_DB")
	overrideString(&env.PostgresUsername, "POSTGRES_USERNAME")
	overrideString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	overrideString(&env.SQLitePath, "SQLITE_PATH")
	overrideString(&env.RedisAddress, "REDIS_ADDRESS")
	overrideString(&env.RedisPassword, "REDIS_PASSWORD")
	overrideString(&env.AMQPURL, "AMQP_URL")
	overrideString(&env.AMQPExchange, "AMQP_EXCHANGE")
	overrideString(&env.AMQPRoutingKey, "AMQP_ROUTING_KEY")
	overrideString(&env.DefaultOwnerID, "DEFAULT_OWNER_ID")

	envBackend := os.Getenv("STORAGE_BACKEND")
	if len(envBackend) != 0 {
		backend := StorageBackend(envBackend)
		switch backend {
		case StorageBackendMemory, StorageBackendPostgres, StorageBackendSQLite, StorageBackendRedis:
			env.StorageBackend = backend
		default:
			return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", envBackend)
		}
	}

	if err := overrideInt(&env.RedisDB, "REDIS_DB"); err != nil {
		return nil, err
	}
	if err := overrideInt(&env.OperatorWorkers, "OPERATOR_WORKERS"); err != nil {
		return nil, err
	}

	return &env, nil
}

// PostgresConnectionString builds the lib/pq DSN for the configured database.
func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func overrideString(target *string, key string) {
	value := os.Getenv(key)
	if len(value) != 0 {
		*target = value
	}
}

func overrideInt(target *int, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}
