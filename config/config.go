// Package config carries the tool paths and server settings shared by the
// backend and the worker binary.
package config

import "os"

type Config struct {
	// tools
	WorkerBin string
	LameBin   string
	FFmpegBin string

	// server
	Port string
}

func Default() *Config {
	return &Config{
		WorkerBin: "mp3worker",
		LameBin:   "lame",
		FFmpegBin: "ffmpeg",
		Port:      "8080",
	}
}

// FromEnv overlays environment overrides on the defaults.
func FromEnv() *Config {
	cfg := Default()
	if v := os.Getenv("MP3EDITOR_WORKER"); v != "" {
		cfg.WorkerBin = v
	}
	if v := os.Getenv("LAME_BIN"); v != "" {
		cfg.LameBin = v
	}
	if v := os.Getenv("FFMPEG_BIN"); v != "" {
		cfg.FFmpegBin = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	return cfg
}
