package worker

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"mp3editor-backend/config"
	"mp3editor-backend/models"
)

const usage = "Usage: mp3worker <read|write|waveform|process> <filepath> [args]"

// Run dispatches one worker command. Whatever happens, exactly one JSON
// document is written to stdout; semantic failures travel in-band as the
// error field with a zero exit status.
func Run(cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) int {
	defer func() {
		if r := recover(); r != nil {
			emit(stdout, models.ProcessResult{Error: fmt.Sprintf("unexpected error: %v", r)})
		}
	}()

	if len(args) < 2 {
		emit(stdout, models.ProcessResult{Error: usage})
		return 1
	}

	command, path := args[0], args[1]

	switch command {
	case "read":
		emit(stdout, ReadTags(path))

	case "write":
		var patch models.TagPatch
		if err := decodeBody(stdin, args[2:], &patch); err != nil {
			emit(stdout, models.ProcessResult{Error: err.Error()})
			return 0
		}
		emit(stdout, WriteTags(path, patch))

	case "waveform":
		samples := DefaultWaveformSamples
		if len(args) >= 3 {
			if n, err := strconv.Atoi(args[2]); err == nil {
				samples = n
			}
		}
		emit(stdout, Waveform(path, samples))

	case "process":
		if len(args) < 3 {
			emit(stdout, models.ProcessResult{Error: "process requires destination path"})
			return 1
		}
		var req models.AudioProcessRequest
		if err := decodeBody(stdin, args[3:], &req); err != nil {
			emit(stdout, models.ProcessResult{Error: err.Error()})
			return 0
		}
		// Re-clamp: the command line is a public surface, not only the bridge.
		req = models.NewAudioProcessRequest(req.TrimStart, req.TrimEnd, req.PitchShift, req.Speed)
		emit(stdout, Process(cfg, path, args[2], req))

	default:
		emit(stdout, models.ProcessResult{Error: fmt.Sprintf("Unknown command: %s", command)})
	}
	return 0
}

// decodeBody reads the request JSON from the trailing argument if present,
// otherwise from stdin until end-of-stream.
func decodeBody(stdin io.Reader, extra []string, v any) error {
	var raw []byte
	if len(extra) > 0 {
		raw = []byte(extra[0])
	} else {
		var err error
		raw, err = io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read request body: %v", err)
		}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode request body: %v", err)
	}
	return nil
}

func emit(w io.Writer, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(w, `{"error":"encode response: %v"}`+"\n", err)
		return
	}
	fmt.Fprintln(w, string(body))
}
