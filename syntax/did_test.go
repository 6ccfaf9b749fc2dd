package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDIDsValid(t *testing.T) {
	assert := assert.New(t)

	valid := []string{
		"did:plc:abc123",
		"did:web:example.com",
		"did:method:val",
		"did:m:v",
		"did:method:VAL.UE-with_chars",
		"did:plc:ewvi7nxzyoun6zhxrhs64oiz",
		"did:onion:2gzyxa5ihm7nsggfxnu52rck2vv4rvmdlkiu3zzui5du4xyclen53wid",
		"did:example:123456789abcdefghi%20",
	}
	for _, raw := range valid {
		_, err := ParseDID(raw)
		assert.NoError(err, raw)
	}
}

func TestDIDsInvalid(t *testing.T) {
	assert := assert.New(t)

	invalid := []string{
		"",
		"did:",
		"did:plc:",
		"did::",
		"DID:plc:abc123",
		"did:PLC:abc123",
		"did:plc:abc 123",
		"did:plc:abc123:",
		"did:plc:abc#123",
		"did:plc:asdf::",
		"plc:abc123",
		"alice.example.com",
		"did:method:" + strings.Repeat("v", 2049),
	}
	for _, raw := range invalid {
		_, err := ParseDID(raw)
		assert.Error(err, raw)
	}
}

func TestDIDParts(t *testing.T) {
	assert := assert.New(t)

	did, err := ParseDID("did:plc:ewvi7nxzyoun6zhxrhs64oiz")
	assert.NoError(err)
	assert.Equal("plc", did.Method())
	assert.Equal("ewvi7nxzyoun6zhxrhs64oiz", did.Identifier())
}

func TestAtIdentifier(t *testing.T) {
	assert := assert.New(t)

	atid, err := ParseAtIdentifier("did:plc:abc123")
	assert.NoError(err)
	assert.True(atid.IsDID())
	assert.False(atid.IsHandle())
	did, err := atid.AsDID()
	assert.NoError(err)
	assert.Equal(DID("did:plc:abc123"), did)
	_, err = atid.AsHandle()
	assert.Error(err)

	atid, err = ParseAtIdentifier("alice.example.com")
	assert.NoError(err)
	assert.True(atid.IsHandle())
	handle, err := atid.AsHandle()
	assert.NoError(err)
	assert.Equal(Handle("alice.example.com"), handle)

	_, err = ParseAtIdentifier("not an identifier")
	assert.Error(err)
	_, err = ParseAtIdentifier("did:Bad:case")
	assert.Error(err)
	_, err = ParseAtIdentifier("")
	assert.Error(err)
}
