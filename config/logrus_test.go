package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogrusInstanceIsSingleton(t *testing.T) {
	assert.Same(t, GetLogrusInstance(), GetLogrusInstance())
}

func TestPrintLogInfoFields(t *testing.T) {
	log := GetLogrusInstance()
	var buf bytes.Buffer
	origOut := log.Out
	log.SetOutput(&buf)
	defer log.SetOutput(origOut)

	user := "admin"
	PrintLogInfo(&user, 200, "ListRegistrations")

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"user":"admin"`)
	assert.Contains(t, line, `"handler":"ListRegistrations"`)
	assert.Contains(t, line, `"status":200`)
}

func TestPrintLogInfoNilUsername(t *testing.T) {
	log := GetLogrusInstance()
	var buf bytes.Buffer
	origOut := log.Out
	log.SetOutput(&buf)
	defer log.SetOutput(origOut)

	PrintLogInfo(nil, 404, "GetDraft")

	assert.Contains(t, buf.String(), `"user":"anonymous"`)
}
