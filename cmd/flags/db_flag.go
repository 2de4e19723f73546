package flags

import (
	"crypto/x509"
	"errors"
	"os"
	"time"

	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx"
)

type DBFlag struct {
	Driver   sqlx.DBDriver `long:"driver" description:"Database driver to use for SQL backend (e.g. mysql, in-memory)" required:"true"`
	Host     string        `long:"host" description:"Host for SQL backend"`
	Port     int           `long:"port" description:"Port for SQL backend"`
	Schema   string        `long:"schema" description:"Database name to use for connecting to SQL backend"`
	Username string        `long:"username" description:"Username to use for connecting to SQL backend"`
	Password string        `long:"password" description:"Password to use for connecting to SQL backend"`

	TLS    SQLTLSFlag    `group:"TLS" namespace:"tls"`
	Tuning SQLTuningFlag `group:"Tuning" namespace:"tuning"`
}

type SQLTLSFlag struct {
	RootCAs []string `long:"root-ca" description:"CA certificate file(s) for TLS connection to the SQL backend"`
}

type SQLTuningFlag struct {
	ConnMaxLifetime int `long:"connection-max-lifetime" description:"Limit the lifetime in milliseconds of a SQL connection"`
}

func (o *DBFlag) Connect(logger logx.Logger) (*sqlx.DB, error) {
	logger = logger.WithData(
		logx.Data{Key: "db_driver", Value: o.Driver},
		logx.Data{Key: "db_host", Value: o.Host},
		logx.Data{Key: "db_port", Value: o.Port},
		logx.Data{Key: "db_schema", Value: o.Schema},
		logx.Data{Key: "db_username", Value: o.Username},
	)

	dbOpts := []sqlx.DBOption{
		sqlx.DBUsername(o.Username),
		sqlx.DBPassword(o.Password),
		sqlx.DBDatabaseName(o.Schema),
		sqlx.DBHost(o.Host),
		sqlx.DBPort(o.Port),
		sqlx.DBConnectionMaxLifetime(time.Duration(o.Tuning.ConnMaxLifetime) * time.Millisecond),
	}

	if len(o.TLS.RootCAs) != 0 {
		tlsLogger := logger.WithName("create-sql-root-ca-pool")

		rootCAPool := x509.NewCertPool()
		for _, path := range o.TLS.RootCAs {
			cert, err := os.ReadFile(path)
			if err != nil {
				tlsLogger.Error(failedToReadFile, err)
				return nil, err
			}

			if ok := rootCAPool.AppendCertsFromPEM(cert); !ok {
				err = errors.New("could not append cert from PEM")
				tlsLogger.Error(failedToParseTLSCredentials, err)
				return nil, err
			}
		}

		dbOpts = append(dbOpts, sqlx.DBRootCAPool(rootCAPool))
	}

	conn, err := sqlx.Connect(o.Driver, dbOpts...)
	if err != nil {
		logger.Error(failedToOpenSQLConnection, err)
		return nil, err
	}

	return conn, nil
}
