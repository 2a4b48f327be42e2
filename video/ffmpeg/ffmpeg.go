// Package ffmpeg decodes video files into raw frames with the ffmpeg
// executable, as a stand-in for a camera.
package ffmpeg

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strconv"

	"golang.org/x/sys/cpu"

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

var pixFmts = map[pixfmt.Format]string{
	pixfmt.Bayer8RGGB: `bayer_rggb8`,
	pixfmt.Bayer8GRBG: `bayer_grbg8`,
	pixfmt.Bayer8BGGR: `bayer_bggr8`,
	pixfmt.Bayer8GBRG: `bayer_gbrg8`,

	pixfmt.YUV8UYVY: `uyvy422`,
	pixfmt.YUV8YUY2: `yuyv422`,
	pixfmt.YUV8YVYU: `yvyu422`,

	pixfmt.RGB24:      `rgb24`,
	pixfmt.BGR24:      `bgr24`,
	pixfmt.RGBA32:     `rgba`,
	pixfmt.BGRA32:     `bgra`,
	pixfmt.ARGB32:     `argb`,
	pixfmt.ABGR32:     `abgr`,
	pixfmt.Grayscale8: `gray`,
}

var pixFmts16 = map[pixfmt.Format]string{
	pixfmt.Bayer16RGGB: `bayer_rggb16`,
	pixfmt.Bayer16GRBG: `bayer_grbg16`,
	pixfmt.Bayer16BGGR: `bayer_bggr16`,
	pixfmt.Bayer16GBRG: `bayer_gbrg16`,
}

// PixFmt is the ffmpeg name of f. 16 bit samples are requested in host
// byte order. 10, 12 and 14 bit bayer formats have no ffmpeg equivalent.
func PixFmt(f pixfmt.Format) (string, bool) {
	if name, ok := pixFmts[f]; ok {
		return name, true
	}
	name, ok := pixFmts16[f]
	if !ok {
		return ``, false
	}
	if cpu.IsBigEndian {
		return name + `be`, true
	}
	return name + `le`, true
}

// Args are the ffmpeg arguments writing frames of vidFilename scaled to
// width x height at fps frames per second as raw f to stdout.
func Args(vidFilename string, width, height int, f pixfmt.Format, fps int) ([]string, error) {
	name, ok := PixFmt(f)
	if !ok {
		return nil, errors.Mark(pixfmt.ErrUnsupportedFormat, `%s has no ffmpeg pixel format`, f)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Mark(pixfmt.ErrInvalidDimensions, `%dx%d`, width, height)
	}
	args := []string{
		`-hide_banner`,
		`-loglevel`, `error`,
		`-i`, vidFilename,
		`-s`, strconv.Itoa(width) + `x` + strconv.Itoa(height),
	}
	if fps > 0 {
		args = append(args, `-vf`, `fps=`+strconv.Itoa(fps))
	}
	return append(args, `-f`, `rawvideo`, `-pix_fmt`, name, `-`), nil
}

// Stream runs ffmpeg and hands every decoded frame to put. Frames put
// rejects are released. Stream returns when the video ends, ctx is done
// or ffmpeg fails.
func Stream(ctx context.Context, vidFilename string, width, height int, f pixfmt.Format, fps int, put func(*img.Image) bool) error {
	if put == nil {
		return errors.NilParam()
	}
	args, err := Args(vidFilename, width, height, f, fps)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, `ffmpeg`, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.New(err)
	}
	if err := cmd.Start(); err != nil {
		return errors.New(err)
	}
	errRead := ReadFrames(ctx, bufio.NewReader(stdout), width, height, f, put)
	if errRead != nil {
		// unblock ffmpeg writing into the pipe
		_ = cmd.Process.Kill()
	}
	errWait := cmd.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if errRead != nil {
		return errRead
	}
	if errWait != nil {
		return errors.New(errWait)
	}
	return nil
}

// ReadFrames reads consecutive unpadded frames from r until io.EOF.
func ReadFrames(ctx context.Context, r io.Reader, width, height int, f pixfmt.Format, put func(*img.Image) bool) error {
	l, err := pixfmt.ComputeLayout(width, height, f, -1)
	if err != nil {
		return err
	}
	if l.IsEmpty() {
		return errors.Mark(pixfmt.ErrInvalidDimensions, `%dx%d %s`, width, height, f)
	}
	for ctx.Err() == nil {
		buf := make([]byte, l.TotalBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.New(err)
		}
		frame, err := img.FromBytes(buf, width, height, f, -1, nil)
		if err != nil {
			return err
		}
		if !put(frame) {
			frame.Release()
		}
	}
	return nil
}
