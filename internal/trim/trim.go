package trim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/Snatch/internal/media"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("Trim")

type (
	// Config points the trimmer at the ffmpeg/ffprobe binaries on the
	// host machine.
	Config struct {
		FfmpegBinPath  string `yaml:"ffmpeg_bin_path" env:"FFMPEG_BIN_PATH" env-default:"/usr/bin/ffmpeg"`
		FfprobeBinPath string `yaml:"ffprobe_bin_path" env:"FFPROBE_BIN_PATH" env-default:"/usr/bin/ffprobe"`
	}

	// Job describes a single trim: the file to cut, the output kind
	// (which fixes the codecs), and the start/end timestamps. At least
	// one of Start/End must be set; either may be empty.
	Job struct {
		InputPath string
		Kind      media.Kind
		Start     string
		End       string
	}

	// Trimmer cuts a media file down to the requested window and
	// returns the path of the trimmed file. Synchronous, no retry.
	Trimmer interface {
		Trim(ctx context.Context, job Job) (string, error)
	}

	ffmpegTrimmer struct {
		config Config
	}
)

// TrimError is raised when the transcoder fails or produces no output.
type TrimError struct {
	InputPath string
	Err       error
}

func (err *TrimError) Error() string {
	return fmt.Sprintf("trim of '%s' failed: %v", err.InputPath, err.Err)
}

func (err *TrimError) Unwrap() error { return err.Err }

func New(config Config) Trimmer {
	return &ffmpegTrimmer{config: config}
}

func (trimmer *ffmpegTrimmer) Trim(ctx context.Context, job Job) (string, error) {
	outputPath := outputPathFor(job)
	ffmpegConfig := &ffmpeg.Config{
		ProgressEnabled: true,
		FfmpegBinPath:   trimmer.config.FfmpegBinPath,
		FfprobeBinPath:  trimmer.config.FfprobeBinPath,
	}

	log.Emit(logger.INFO, "Trimming %s [start=%q end=%q]\n", job.InputPath, job.Start, job.End)
	progressChannel, err := ffmpeg.
		New(ffmpegConfig).
		Input(job.InputPath).
		Output(outputPath).
		WithContext(&ctx).
		Start(optionsFor(job))
	if err != nil {
		return "", &TrimError{InputPath: job.InputPath, Err: err}
	}

	// Drain progress until the command closes the channel.
	for progress := range progressChannel {
		log.Emit(logger.VERBOSE, "Trim progress for %s: %v\n", job.InputPath, progress)
	}

	// Some failures surface only through the absence of output, so
	// verify the file landed before declaring success.
	if _, err := os.Stat(outputPath); err != nil {
		return "", &TrimError{InputPath: job.InputPath, Err: fmt.Errorf("transcoder produced no output: %w", err)}
	}

	log.Emit(logger.SUCCESS, "Trimmed %s -> %s\n", job.InputPath, outputPath)
	return outputPath, nil
}

// optionsFor composes the ffmpeg flags for a trim. Seek and re-encode
// is deliberately used over stream copy: slower, but cuts are frame
// accurate rather than snapping to the nearest keyframe.
func optionsFor(job Job) Options {
	overwrite := true
	opts := Options{Overwrite: &overwrite}

	if job.Start != "" {
		start := job.Start
		opts.SeekStart = &start
	}
	if job.End != "" {
		end := job.End
		opts.SeekEnd = &end
	}

	if job.Kind == media.Audio {
		audioCodec := "libmp3lame"
		opts.AudioCodec = &audioCodec
	} else {
		videoCodec, audioCodec := "libx264", "aac"
		opts.VideoCodec = &videoCodec
		opts.AudioCodec = &audioCodec
	}

	return opts
}

func outputPathFor(job Job) string {
	return filepath.Join(filepath.Dir(job.InputPath), "cropped_"+filepath.Base(job.InputPath))
}
