package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultRunProducesAdjacencyPackingToStdout(t *testing.T) {
	out, err := runCmd(t)
	require.NoError(t, err)
	require.Contains(t, out, "class AdjacencyPacking")
	require.Contains(t, out, "public static long pack(")
	require.Contains(t, out, "public static long unpackLoop(")
}

func TestRejectsInvalidBlockSize(t *testing.T) {
	_, err := runCmd(t, "-b", "3")
	require.Error(t, err)
}

func TestRejectsUnknownIncludeToken(t *testing.T) {
	_, err := runCmd(t, "-i", "bogus")
	require.Error(t, err)
}

func TestExcludeDropsFamily(t *testing.T) {
	out, err := runCmd(t, "-e", "unpack-loop")
	require.NoError(t, err)
	require.NotContains(t, out, "unpackLoop(")
}

func TestWritesToClassNameDotJavaWhenForced(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	_, err = runCmd(t, "-c", "Custom", "-o")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "Custom.java"))
	require.NoError(t, err)
	require.Contains(t, string(got), "class Custom")

	_, err = runCmd(t, "-c", "Custom", "-o")
	require.Error(t, err)

	_, err = runCmd(t, "-c", "Custom", "-o", "-f")
	require.NoError(t, err)
}
