package storage

import (
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/storage/bolt"
	"github.com/trezcool/masomo-lms/storage/memory"
	"github.com/trezcool/masomo-lms/storage/sqldb"
)

const (
	DriverMemory = "memory"
	DriverBolt   = "bolt"
)

// OpenMedium opens the durable medium selected by conf.Driver.
func OpenMedium(conf core.StorageConfig) (core.Medium, error) {
	switch conf.Driver {
	case DriverMemory:
		return memory.Open(), nil
	case DriverBolt, "":
		return bolt.Open(conf.Path)
	case sqldb.DriverSQLite:
		return sqldb.Open(sqldb.DriverSQLite, conf.Path)
	case sqldb.DriverPostgres:
		return sqldb.Open(sqldb.DriverPostgres, conf.DSN)
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Driver)
	}
}
