package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hbomb79/Snatch/internal/media"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("Extractor")

// Identity presented to upstream hosts. Some sites refuse to serve
// obvious automation, so every invocation impersonates a desktop
// browser, pins IPv4, and asks the YouTube extractor to negotiate
// with client hints that aren't subjected to the same bot checks.
const (
	spoofedUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	youtubeClientArgs = "youtube:player_client=ios,web"
)

type (
	// Config controls how the yt-dlp binary is located and
	// authenticated. The cookie file is optional; when it's present on
	// disk it is handed to the extractor for authenticated downloads.
	Config struct {
		BinPath    string `yaml:"bin_path" env:"YTDLP_BIN_PATH" env-default:"yt-dlp"`
		CookiePath string `yaml:"cookie_path" env:"YTDLP_COOKIE_PATH" env-default:"/tmp/snatch/cookies.txt"`
	}

	// Request captures what the extractor is being asked to fetch.
	Request struct {
		URL  string
		Kind media.Kind
	}

	// Extractor resolves a source URL to a single media file inside
	// outputDir, returning the path of that file. Implementations are
	// synchronous and do not enforce any timeout of their own; any
	// cancellation policy belongs to the caller's context.
	Extractor interface {
		Extract(ctx context.Context, request Request, outputDir string) (string, error)
	}

	// runner mirrors exec.CommandContext so tests can substitute the
	// spawned process.
	runner func(ctx context.Context, name string, args ...string) *exec.Cmd

	ytDlpExtractor struct {
		config Config
		run    runner
	}
)

// ExtractionError is raised when the external tool reports a failure,
// or when it claims success but left nothing usable in the workspace.
type ExtractionError struct {
	URL    string
	Detail string
	Err    error
}

func (err *ExtractionError) Error() string {
	if err.Detail != "" {
		return fmt.Sprintf("extraction of '%s' failed: %s", err.URL, err.Detail)
	}

	return fmt.Sprintf("extraction of '%s' failed: %v", err.URL, err.Err)
}

func (err *ExtractionError) Unwrap() error { return err.Err }

func New(config Config) Extractor {
	return &ytDlpExtractor{config: config, run: exec.CommandContext}
}

func (extractor *ytDlpExtractor) Extract(ctx context.Context, request Request, outputDir string) (string, error) {
	args := extractor.buildArgs(request, outputDir)
	log.Emit(logger.INFO, "Extracting %s (%s) via %s\n", request.URL, request.Kind, extractor.config.BinPath)
	log.Emit(logger.DEBUG, "Extractor arguments: %v\n", args)

	stderr := &bytes.Buffer{}
	cmd := extractor.run(ctx, extractor.config.BinPath, args...)
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return "", &ExtractionError{URL: request.URL, Detail: strings.TrimSpace(stderr.String()), Err: err}
	}

	// The tool derives its final filename from the media title and
	// whatever format it settled on, so the predicted name cannot be
	// trusted. The output directory held nothing before the invocation;
	// whatever regular file is present now is the result.
	output, err := firstRegularFile(outputDir)
	if err != nil {
		return "", &ExtractionError{URL: request.URL, Detail: "extractor reported success but produced no output file", Err: err}
	}

	log.Emit(logger.SUCCESS, "Extracted %s -> %s\n", request.URL, output)
	return output, nil
}

func (extractor *ytDlpExtractor) buildArgs(request Request, outputDir string) []string {
	args := []string{
		"--output", filepath.Join(outputDir, "%(title)s.%(ext)s"),
		"--no-playlist",
		"--quiet",
		"--no-progress",
		"--force-ipv4",
		"--user-agent", spoofedUserAgent,
		"--extractor-args", youtubeClientArgs,
	}

	if info, err := os.Stat(extractor.config.CookiePath); err == nil && !info.IsDir() {
		args = append(args, "--cookies", extractor.config.CookiePath)
	}

	switch request.Kind {
	case media.Audio:
		args = append(args,
			"--format", "bestaudio/best",
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "192K",
		)
	default:
		args = append(args,
			"--format", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
			"--merge-output-format", "mp4",
		)
	}

	return append(args, "--", request.URL)
}

// firstRegularFile returns the lexically-first regular file inside dir.
// More than one candidate is an acknowledged ambiguity; the extractor
// should only ever leave a single file behind.
func firstRegularFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("no regular file found in '%s'", dir)
}
