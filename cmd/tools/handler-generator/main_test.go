package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerData(t *testing.T) {
	data, err := newHandlerData("gate-info", "", "gate.info, gate.details", "stands", "", "")
	require.NoError(t, err)

	assert.Equal(t, "gateinfo", data.PackageName)
	assert.Equal(t, "gate", data.Category)
	assert.Equal(t, "gate", data.Entity)
	assert.Equal(t, "Stands", data.Service)
	assert.Equal(t, []string{"gate.info", "gate.details"}, data.Intents)
}

func TestNewHandlerData_Rejects(t *testing.T) {
	tests := []struct {
		name, handler, intents, service string
	}{
		{"not kebab case", "GateInfo", "gate.info", "stands"},
		{"single word", "gate", "gate.info", "stands"},
		{"bad intent", "gate-info", "Gate Info", "stands"},
		{"no intents", "gate-info", " , ", "stands"},
		{"unknown service", "gate-info", "gate.info", "weather"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHandlerData(tt.handler, "", tt.intents, tt.service, "", "")
			assert.Error(t, err)
		})
	}
}

func TestGenerate_WritesParsableGo(t *testing.T) {
	root := t.TempDir()
	data, err := newHandlerData("gate-info", "gate", "gate.info", "reference", "gate", "describes a gate")
	require.NoError(t, err)

	written, err := generate(root, data, false)
	require.NoError(t, err)
	require.Len(t, written, 4)

	fset := token.NewFileSet()
	for _, path := range written {
		f, err := parser.ParseFile(fset, path, nil, 0)
		require.NoError(t, err, path)
		assert.Equal(t, "gateinfo", f.Name.Name)
	}

	src, err := os.ReadFile(filepath.Join(root, "gate", "gate-info", "config.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), `var Intents = []string{"gate.info"}`)

	handlerSrc, err := os.ReadFile(filepath.Join(root, "gate", "gate-info", "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handlerSrc), "b.Reference == nil")
}

func TestGenerate_KeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	data, err := newHandlerData("gate-info", "", "gate.info", "stands", "", "")
	require.NoError(t, err)

	dir := filepath.Join(root, "gate", "gate-info")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "handler.go"), []byte("package gateinfo\n"), 0o644))

	written, err := generate(root, data, false)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	src, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Equal(t, "package gateinfo\n", string(src))
}
