// Package bridge drives the external mp3worker process. Each call spawns a
// fresh worker, pipes a single JSON document in, and reads a single JSON
// document back out. The bridge holds no state between calls.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"golang.org/x/sync/errgroup"

	"mp3editor-backend/models"
)

// rawPreviewLimit bounds how much raw worker output is quoted in a decode
// error, so a malformed multi-megabyte response stays diagnosable.
const rawPreviewLimit = 500

type Runner struct {
	workerBin string
}

func NewRunner(workerBin string) *Runner {
	return &Runner{workerBin: workerBin}
}

// invoke runs one worker command to completion. stdin may be nil. Both
// output pipes are drained fully before Wait: if the parent blocked on Wait
// while the child still had more than a pipe buffer's worth of output
// pending, both processes would hang forever. The drain-then-wait order is
// load-bearing, not a cleanup nicety.
func (r *Runner) invoke(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.workerBin, args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %v", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %v", err)
	}

	var stdinPipe io.WriteCloser
	if stdin != nil {
		stdinPipe, err = cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %v", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch %s: %v", r.workerBin, err)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	if stdinPipe != nil {
		g.Go(func() error {
			// Closing signals end-of-input; the worker reads until EOF.
			defer stdinPipe.Close()
			_, err := stdinPipe.Write(stdin)
			return err
		})
	}

	pipeErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		msg := stderr.String()
		if len(msg) > rawPreviewLimit {
			msg = msg[:rawPreviewLimit]
		}
		return stdout.Bytes(), fmt.Errorf("worker %s: %v: %s", args[0], waitErr, msg)
	}
	if pipeErr != nil {
		return stdout.Bytes(), fmt.Errorf("worker %s: pipe: %v", args[0], pipeErr)
	}
	return stdout.Bytes(), nil
}

// decode unmarshals a worker response, quoting a bounded prefix of the raw
// output when the JSON is malformed.
func decode(out []byte, v any) error {
	if err := json.Unmarshal(out, v); err != nil {
		preview := string(out)
		if len(preview) > rawPreviewLimit {
			preview = preview[:rawPreviewLimit]
		}
		return fmt.Errorf("malformed worker response: %v; raw output: %q", err, preview)
	}
	return nil
}

// ReadTags reads the ID3 record for path. Failures of any kind come back as
// a record with Error set; the caller must not apply the other fields then.
func (r *Runner) ReadTags(ctx context.Context, path string) models.TagRecord {
	out, err := r.invoke(ctx, nil, "read", path)
	if err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	var rec models.TagRecord
	if err := decode(out, &rec); err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	return rec
}

// WriteTags persists record to path. The record travels as a patch naming
// every field: the editor always saves whole records, and the explicit
// keys keep the worker from mistaking a full save for a partial one.
func (r *Runner) WriteTags(ctx context.Context, path string, record models.TagRecord) models.TagRecord {
	body, err := json.Marshal(record.Patch())
	if err != nil {
		return models.TagRecord{Error: fmt.Sprintf("encode request: %v", err)}
	}
	out, err := r.invoke(ctx, body, "write", path)
	if err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	var rec models.TagRecord
	if err := decode(out, &rec); err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	return rec
}

// GetWaveform returns the amplitude envelope for path with sampleCount
// buckets. Failure is non-fatal to callers: an empty summary with Error set.
func (r *Runner) GetWaveform(ctx context.Context, path string, sampleCount int) models.WaveformSummary {
	out, err := r.invoke(ctx, nil, "waveform", path, strconv.Itoa(sampleCount))
	if err != nil {
		return models.WaveformSummary{Error: err.Error()}
	}
	var sum models.WaveformSummary
	if err := decode(out, &sum); err != nil {
		return models.WaveformSummary{Error: err.Error()}
	}
	return sum
}

// ProcessAudio applies request to sourcePath, writing the result to destPath.
func (r *Runner) ProcessAudio(ctx context.Context, sourcePath, destPath string, request models.AudioProcessRequest) models.ProcessResult {
	body, err := json.Marshal(request)
	if err != nil {
		return models.ProcessResult{Error: fmt.Sprintf("encode request: %v", err)}
	}
	out, err := r.invoke(ctx, body, "process", sourcePath, destPath)
	if err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	var res models.ProcessResult
	if err := decode(out, &res); err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	return res
}
