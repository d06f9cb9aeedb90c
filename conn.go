package main

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strconv"

	"dbexp/pkg"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/pkg/errors"
	goora "github.com/sijms/go-ora/v2"
	log "github.com/sirupsen/logrus"
)

// Connector opens a database handle for one kind of server.
type Connector interface {
	DriverName() string
	Dsn(ds *pkg.DatabaseConfig, opts ConnOptions) (string, error)
}

type ConnOptions struct {
	// PrefetchRows is handed to drivers that batch fetches on their own.
	PrefetchRows int
}

var connectors = map[pkg.DbType]Connector{
	pkg.DbTypeMssql:  mssqlConnector{},
	pkg.DbTypeOracle: oracleConnector{},
	pkg.DbTypeMysql:  mysqlConnector{},
	pkg.DbTypeSqlite: sqliteConnector{},
}

func ConnectorFor(dbType pkg.DbType) (Connector, error) {
	c, ok := connectors[dbType]
	if !ok {
		return nil, errors.Wrapf(pkg.ErrUnknownDbType, "%q", dbType)
	}
	return c, nil
}

// Connect opens a handle capped at one connection and pins that connection.
// Every job of a run goes through the returned *sql.Conn, so they all share one session.
func Connect(ctx context.Context, ds *pkg.DatabaseConfig, opts ConnOptions) (*sql.DB, *sql.Conn, error) {
	c, err := ConnectorFor(ds.Type)
	if err != nil {
		return nil, nil, err
	}
	dsn, err := c.Dsn(ds, opts)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open(c.DriverName(), dsn)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse dsn %s", MaskDsn(dsn))
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	conn, err := db.Conn(ctx)
	if err == nil {
		err = conn.PingContext(ctx)
	}
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		db.Close()
		return nil, nil, errors.Wrapf(err, "failed to connect %s", MaskDsn(dsn))
	}
	log.WithField("db", ds.DsKey()).Debugf("Connected %s", MaskDsn(dsn))
	return db, conn, nil
}

type mssqlConnector struct{}

func (mssqlConnector) DriverName() string { return "sqlserver" }

func (mssqlConnector) Dsn(ds *pkg.DatabaseConfig, _ ConnOptions) (string, error) {
	query := url.Values{}
	query.Set("database", ds.Database)
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(ds.User, ds.Password),
		Host:     net.JoinHostPort(ds.Host, ds.Port),
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

type oracleConnector struct{}

func (oracleConnector) DriverName() string { return "oracle" }

func (oracleConnector) Dsn(ds *pkg.DatabaseConfig, opts ConnOptions) (string, error) {
	port, err := strconv.Atoi(ds.Port)
	if err != nil {
		return "", errors.Wrapf(err, "invalid oracle port %q", ds.Port)
	}
	options := map[string]string{"SID": ds.Sid}
	if opts.PrefetchRows > 0 {
		options["PREFETCH_ROWS"] = strconv.Itoa(opts.PrefetchRows)
	}
	return goora.BuildUrl(ds.Host, port, "", ds.User, ds.Password, options), nil
}

type mysqlConnector struct{}

func (mysqlConnector) DriverName() string { return "mysql" }

func (mysqlConnector) Dsn(ds *pkg.DatabaseConfig, _ ConnOptions) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = ds.User
	cfg.Passwd = ds.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(ds.Host, ds.Port)
	cfg.DBName = ds.Database
	cfg.Collation = "utf8mb4_general_ci"
	return cfg.FormatDSN(), nil
}

type sqliteConnector struct{}

func (sqliteConnector) DriverName() string { return "sqlite3" }

func (sqliteConnector) Dsn(ds *pkg.DatabaseConfig, _ ConnOptions) (string, error) {
	if ds.Database == ":memory:" {
		return ds.Database, nil
	}
	return "file:" + ds.Database, nil
}
