package pkg

import "strings"

type DbType string

const (
	DbTypeMssql  DbType = "mssql"
	DbTypeOracle DbType = "oracle"
	DbTypeMysql  DbType = "mysql"
	DbTypeSqlite DbType = "sqlite"
)

func DbTypes() []DbType {
	return []DbType{DbTypeMssql, DbTypeOracle, DbTypeMysql, DbTypeSqlite}
}

func ParseDbType(s string) (DbType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range DbTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DbTypeUsage lists the supported types for help text, e.g. "mssql|oracle|mysql|sqlite".
func DbTypeUsage() string {
	names := make([]string, 0, len(DbTypes()))
	for _, t := range DbTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, "|")
}
