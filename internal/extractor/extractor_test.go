package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/hbomb79/Snatch/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

// stubRunner ignores the composed yt-dlp invocation and runs the given
// shell script instead, letting tests simulate the tool's side effects.
func stubRunner(script string) runner {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
}

func newTestExtractor(t *testing.T, script string) *ytDlpExtractor {
	return &ytDlpExtractor{
		config: Config{BinPath: "yt-dlp", CookiePath: filepath.Join(t.TempDir(), "cookies.txt")},
		run:    stubRunner(script),
	}
}

func Test_BuildArgs_Common(t *testing.T) {
	instance := newTestExtractor(t, "true")
	outputDir := t.TempDir()

	args := instance.buildArgs(Request{URL: "https://example.com/watch?v=abc", Kind: media.Video}, outputDir)

	assert.Contains(t, args, "--force-ipv4")
	assert.Contains(t, args, "--user-agent")
	assert.Contains(t, args, "--extractor-args")
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, filepath.Join(outputDir, "%(title)s.%(ext)s"))
	assert.Equal(t, "https://example.com/watch?v=abc", args[len(args)-1])
	assert.Equal(t, "--", args[len(args)-2], "the URL must be terminated from option parsing")
	assert.NotContains(t, args, "--cookies", "cookie flag must be omitted when no cookie file exists")
}

func Test_BuildArgs_Video(t *testing.T) {
	instance := newTestExtractor(t, "true")

	args := instance.buildArgs(Request{URL: "https://example.com/v", Kind: media.Video}, t.TempDir())

	assert.Contains(t, args, "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best")
	assert.Contains(t, args, "--merge-output-format")
	assert.NotContains(t, args, "--extract-audio")
}

func Test_BuildArgs_Audio(t *testing.T) {
	instance := newTestExtractor(t, "true")

	args := instance.buildArgs(Request{URL: "https://example.com/v", Kind: media.Audio}, t.TempDir())

	assert.Contains(t, args, "bestaudio/best")
	assert.Contains(t, args, "--extract-audio")
	assert.Contains(t, args, "mp3")
	assert.Contains(t, args, "192K")
	assert.NotContains(t, args, "--merge-output-format")
}

func Test_BuildArgs_CookieFilePresent(t *testing.T) {
	instance := newTestExtractor(t, "true")
	require.NoError(t, os.WriteFile(instance.config.CookiePath, []byte("# Netscape HTTP Cookie File"), 0o644))

	args := instance.buildArgs(Request{URL: "https://example.com/v", Kind: media.Video}, t.TempDir())

	assert.Contains(t, args, "--cookies")
	assert.Contains(t, args, instance.config.CookiePath)
}

func Test_Extract_ReturnsProducedFile(t *testing.T) {
	outputDir := t.TempDir()
	instance := newTestExtractor(t, fmt.Sprintf("echo media > %s", filepath.Join(outputDir, "out.mp4")))

	path, err := instance.Extract(ctx, Request{URL: "https://example.com/v", Kind: media.Video}, outputDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "out.mp4"), path)
}

func Test_Extract_IgnoresDirectories(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outputDir, "a-subdir"), 0o755))
	instance := newTestExtractor(t, fmt.Sprintf("echo media > %s", filepath.Join(outputDir, "z.mp4")))

	path, err := instance.Extract(ctx, Request{URL: "https://example.com/v", Kind: media.Video}, outputDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "z.mp4"), path)
}

func Test_Extract_ToolFailure(t *testing.T) {
	instance := newTestExtractor(t, "echo 'ERROR: unsupported url' >&2; exit 1")

	_, err := instance.Extract(ctx, Request{URL: "https://example.com/v", Kind: media.Video}, t.TempDir())
	require.Error(t, err)

	var extractionError *ExtractionError
	require.True(t, errors.As(err, &extractionError))
	assert.Contains(t, extractionError.Detail, "unsupported url")
}

func Test_Extract_NoOutputFile(t *testing.T) {
	instance := newTestExtractor(t, "true")

	_, err := instance.Extract(ctx, Request{URL: "https://example.com/v", Kind: media.Video}, t.TempDir())
	require.Error(t, err)

	var extractionError *ExtractionError
	assert.True(t, errors.As(err, &extractionError))
}
