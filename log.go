package main

import (
	"io"
	"regexp"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

var (
	reUrlUserInfo = regexp.MustCompile(`(://)([^:/@]*):([^@]*)(@)`)
	reMysqlPass   = regexp.MustCompile(`^([^:/@]*):(.*)(@tcp\()`)
	rePwdParam    = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
)

func initLogger(out io.Writer, verbose bool) {
	log.SetOutput(out)
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		TimestampFormat: "2006-01-02 15:04:05",
		FieldsOrder:     []string{"job", "db"},
		NoColors:        true,
	})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// MaskDsn hides the password of url style, mysql style and key=value style DSNs.
func MaskDsn(dsn string) string {
	out := reUrlUserInfo.ReplaceAllString(dsn, "$1$2:******$4")
	out = reMysqlPass.ReplaceAllString(out, "$1:******$3")
	out = rePwdParam.ReplaceAllString(out, "$1******")
	return out
}
