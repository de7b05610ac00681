package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputType(t *testing.T) {
	assert.NoError(t, validateOutputType("json"))
	assert.NoError(t, validateOutputType("csv"))

	err := validateOutputType("xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestAllowedPValuesHelp(t *testing.T) {
	help := allowedPValuesHelp()

	assert.Contains(t, help, "0.05")
	assert.Contains(t, help, "0.001")
}
