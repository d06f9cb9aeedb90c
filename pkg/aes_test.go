package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAES(t *testing.T) {
	as := assert.New(t)
	a, err := NewAes([]byte("0123456789abcdef"), nil)
	as.NoError(err)

	enc := a.EncAsHex("s3cret|pwd")
	as.NotEqual("s3cret|pwd", enc)
	dec, err := a.DecAsStr(enc)
	as.NoError(err)
	as.Equal("s3cret|pwd", dec)

	// same cipher can be reused
	dec, err = a.DecAsStr(a.EncAsHex("again"))
	as.NoError(err)
	as.Equal("again", dec)
}

func TestAESBadInput(t *testing.T) {
	as := assert.New(t)
	_, err := NewAes([]byte("short"), nil)
	as.Error(err)

	a, err := NewAes([]byte("0123456789abcdef"), nil)
	as.NoError(err)
	_, err = a.DecAsStr("not-hex")
	as.Error(err)
}
