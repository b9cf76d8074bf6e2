package main

import (
	"bytes"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/go-prodcons"
	"github.com/joeycumines/go-prodcons/internal/menu"
)

type (
	// report summarizes a run, and is written as TOML, by the -report flag.
	report struct {
		Started     time.Time      `toml:"started,omitempty"`
		RunID       string         `toml:"run_id,omitempty"`
		Strategy    string         `toml:"strategy"`
		Message     string         `toml:"message"`
		Error       string         `toml:"error,omitempty"`
		Elapsed     string         `toml:"elapsed,omitempty"`
		Workers     []reportWorker `toml:"workers,omitempty"`
		Code        int            `toml:"code"`
		Produced    int            `toml:"produced"`
		Consumed    int            `toml:"consumed"`
		MaxAdmitted int            `toml:"max_admitted"`
		Admissions  int            `toml:"admissions"`
	}

	reportWorker struct {
		Name     string `toml:"name"`
		Role     string `toml:"role"`
		Outcome  string `toml:"outcome"`
		Error    string `toml:"error,omitempty"`
		Number   int    `toml:"number"`
		ThreadID int    `toml:"thread_id"`
	}
)

func newReport(strategy prodcons.Strategy, res *prodcons.Result, err error) *report {
	code := prodcons.CodeOf(err)
	r := report{
		Strategy: strategy.String(),
		Message:  menu.Message(code),
		Code:     int(code),
	}
	if err != nil {
		r.Error = err.Error()
	}
	if res == nil {
		return &r
	}
	r.Started = res.Started.UTC()
	r.RunID = res.RunID
	r.Elapsed = res.Elapsed.String()
	r.Produced = res.Produced
	r.Consumed = res.Consumed
	r.MaxAdmitted = res.MaxAdmitted
	r.Admissions = res.Admissions
	for _, w := range res.Workers {
		rw := reportWorker{
			Name:     w.Name,
			Role:     w.Role.String(),
			Outcome:  w.Outcome.String(),
			Number:   w.Number,
			ThreadID: w.ThreadID,
		}
		if w.Err != nil {
			rw.Error = w.Err.Error()
		}
		r.Workers = append(r.Workers, rw)
	}
	return &r
}

// writeReport atomically replaces the file at path.
func writeReport(path string, r *report) error {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(r); err != nil {
		return err
	}
	return writeFile(path, b.Bytes())
}
