package main

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibs-source/bucket-manifest/internal/listener"
	"github.com/ibs-source/bucket-manifest/internal/log"
)

func TestLedgerFor_DisabledIsNilInterface(t *testing.T) {
	ledger := ledgerFor(&services{})
	assert.True(t, ledger == nil, "expected a nil interface, got %T", ledger)
}

func TestBuildSinks_PrinterOnly(t *testing.T) {
	sinks := buildSinks(&services{})
	require.Len(t, sinks, 1)
	_, ok := sinks[0].(*listener.Printer)
	assert.True(t, ok)
}

func TestExitCode(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)

	assert.Equal(t, 0, exitCode(nil, logger))
	assert.Equal(t, 1, exitCode(listener.Classify(errors.New("boom")), logger))
}
