package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// AesKeyEnv names the environment variable holding the key for pwd_enc values.
const AesKeyEnv = "DBEXP_AES_KEY"

var (
	ErrUnknownDbType  = errors.New("unknown database type")
	ErrMissingSection = errors.New("missing config section")
	ErrMissingKey     = errors.New("missing config key")
)

var defaultPorts = map[DbType]string{
	DbTypeMssql:  "1433",
	DbTypeOracle: "1521",
	DbTypeMysql:  "3306",
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DatabaseConfig is one section of the database config file.
type DatabaseConfig struct {
	Type        DbType `ini:"-" yaml:"-"`
	Host        string `ini:"host" yaml:"host"`
	Port        string `ini:"port" yaml:"port"`
	Database    string `ini:"database" yaml:"database"`
	Sid         string `ini:"sid" yaml:"sid"`
	User        string `ini:"user" yaml:"user"`
	Password    string `ini:"pwd" yaml:"pwd"`
	PasswordEnc string `ini:"pwd_enc" yaml:"pwd_enc"`
}

func (ds *DatabaseConfig) DsKey() string {
	if ds.Type == DbTypeSqlite {
		return ds.Database
	}
	name := ds.Database
	if ds.Type == DbTypeOracle {
		name = ds.Sid
	}
	return ds.Host + ":" + ds.Port + "/" + name
}

// LoadConfigFromFile reads the section named after dbType. Files ending in
// .yml or .yaml are parsed as YAML, everything else as INI.
func LoadConfigFromFile(configFile string, dbType DbType) (*DatabaseConfig, error) {
	if _, ok := ParseDbType(string(dbType)); !ok {
		return nil, errors.Wrapf(ErrUnknownDbType, "%q", dbType)
	}
	var (
		ds  *DatabaseConfig
		err error
	)
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yml", ".yaml":
		ds, err = loadYamlSection(configFile, dbType)
	default:
		ds, err = loadIniSection(configFile, dbType)
	}
	if err != nil {
		return nil, err
	}
	ds.Type = dbType
	if err = ds.resolve(); err != nil {
		return nil, errors.Wrapf(err, "config %s [%s]", configFile, dbType)
	}
	return ds, nil
}

func loadIniSection(configFile string, dbType DbType) (*DatabaseConfig, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true, IgnoreInlineComment: true}, configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "can not load config %s", configFile)
	}
	sec, err := file.GetSection(string(dbType))
	if err != nil {
		return nil, errors.Wrapf(ErrMissingSection, "[%s] in %s", dbType, configFile)
	}
	ds := new(DatabaseConfig)
	if err = sec.MapTo(ds); err != nil {
		return nil, errors.Wrapf(err, "can not parse [%s] in %s", dbType, configFile)
	}
	return ds, nil
}

func loadYamlSection(configFile string, dbType DbType) (*DatabaseConfig, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "can not load config %s", configFile)
	}
	sections := make(map[string]*DatabaseConfig)
	if err = yaml.Unmarshal(content, &sections); err != nil {
		return nil, errors.Wrapf(err, "can not parse config %s", configFile)
	}
	ds, ok := sections[string(dbType)]
	if !ok || ds == nil {
		return nil, errors.Wrapf(ErrMissingSection, "%s in %s", dbType, configFile)
	}
	return ds, nil
}

func (ds *DatabaseConfig) resolve() error {
	for _, v := range []*string{&ds.Host, &ds.Port, &ds.Database, &ds.Sid, &ds.User, &ds.Password, &ds.PasswordEnc} {
		*v = strings.TrimSpace(expandEnv(*v))
	}
	if ds.Port == "" {
		ds.Port = defaultPorts[ds.Type]
	}
	if ds.PasswordEnc != "" {
		key := os.Getenv(AesKeyEnv)
		if key == "" {
			return errors.Errorf("pwd_enc is set but %s is empty", AesKeyEnv)
		}
		c, err := NewAes([]byte(key), nil)
		if err != nil {
			return err
		}
		if ds.Password, err = c.DecAsStr(ds.PasswordEnc); err != nil {
			return errors.Wrap(err, "can not decrypt pwd_enc")
		}
	}
	return ds.validate()
}

func (ds *DatabaseConfig) validate() error {
	var required map[string]string
	switch ds.Type {
	case DbTypeMssql, DbTypeMysql:
		required = map[string]string{"host": ds.Host, "database": ds.Database, "user": ds.User}
	case DbTypeOracle:
		required = map[string]string{"host": ds.Host, "sid": ds.Sid, "user": ds.User}
	case DbTypeSqlite:
		required = map[string]string{"database": ds.Database}
	}
	for _, k := range []string{"host", "database", "sid", "user"} {
		if v, ok := required[k]; ok && v == "" {
			return errors.Wrap(ErrMissingKey, k)
		}
	}
	return nil
}

// expandEnv replaces ${NAME} references only, so a bare '$' in a password survives.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}
