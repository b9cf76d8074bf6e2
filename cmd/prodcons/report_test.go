package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/go-prodcons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_report(t *testing.T) {
	path := filepath.Join(t.TempDir(), `report.toml`)
	code := run(context.Background(), []string{
		`-strategy`, `semaphore`,
		`-duration`, `200ms`,
		`-workers`, `4`,
		`-log-level`, `off`,
		`-report`, path,
	}, strings.NewReader(``), io.Discard, io.Discard)
	require.Equal(t, 0, code)

	var r report
	md, err := toml.DecodeFile(path, &r)
	require.NoError(t, err)
	assert.Empty(t, md.Undecoded())

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, `semaphore`, r.Strategy)
	assert.Equal(t, `Finished successfully`, r.Message)
	assert.Equal(t, 0, r.Code)
	assert.Empty(t, r.Error)
	assert.False(t, r.Started.IsZero())
	elapsed, err := time.ParseDuration(r.Elapsed)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.LessOrEqual(t, r.MaxAdmitted, 2)
	require.Len(t, r.Workers, 4)
	for i, w := range r.Workers {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, `worker`, w.Role)
		assert.Equal(t, `timed_out`, w.Outcome)
	}
}

func TestNewReport_notStarted(t *testing.T) {
	err := &prodcons.RunError{Code: prodcons.CodeAPI, Err: errors.New(`some error`)}
	r := newReport(prodcons.LockOnly, nil, err)
	assert.Equal(t, &report{
		Strategy: `lock`,
		Message:  `API error`,
		Error:    `some error`,
		Code:     3,
	}, r)

	path := filepath.Join(t.TempDir(), `report.toml`)
	require.NoError(t, writeReport(path, r))
	var decoded report
	_, err2 := toml.DecodeFile(path, &decoded)
	require.NoError(t, err2)
	assert.Equal(t, *r, decoded)
}
