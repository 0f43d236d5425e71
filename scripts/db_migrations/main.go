package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/wallet-server/internal/config"
	"github.com/carson-networks/wallet-server/internal/storage"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	var dsn string
	switch env.StorageBackend {
	case server_config.StorageBackendPostgres:
		dsn = env.PostgresConnectionString()
	case server_config.StorageBackendSQLite:
		dsn = env.SQLitePath
	default:
		logrus.WithField("backend", env.StorageBackend).Info("backend has no schema, nothing to migrate")
		return
	}

	preMigrationVersion, postMigrationVersion, err := storage.RunMigrations(env.StorageBackend, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("storage.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"backend":              env.StorageBackend,
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
}
