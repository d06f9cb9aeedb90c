package main

import (
	"bytes"
	"strings"
	"testing"

	"dbexp/pkg"

	"github.com/stretchr/testify/assert"
)

func TestEncrypt(t *testing.T) {
	a := assert.New(t)
	key := "0123456789abcdef0123456789abcdef"
	b := new(bytes.Buffer)
	a.NoError(encrypt(b, key, "tiger"))

	line := strings.TrimSpace(b.String())
	a.True(strings.HasPrefix(line, "pwd_enc = "))
	c, err := pkg.NewAes([]byte(key), nil)
	a.NoError(err)
	pwd, err := c.DecAsStr(strings.TrimPrefix(line, "pwd_enc = "))
	a.NoError(err)
	a.Equal("tiger", pwd)
}

func TestEncryptWithoutKey(t *testing.T) {
	a := assert.New(t)
	a.Error(encrypt(new(bytes.Buffer), "", "tiger"))
	a.Error(encrypt(new(bytes.Buffer), "short", "tiger"))
}
