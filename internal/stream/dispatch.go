// Package stream resolves the due schedule for a slot and hands its video
// to ffmpeg for the actual push to the ingest endpoint.
package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/model"
	"github.com/sushant-kumar17/yt-streamer/internal/notify"
)

// ErrMissingStreamKey means a video was due but no destination credential is
// configured. Misconfiguration is fatal to the invocation, not retried.
var ErrMissingStreamKey = errors.New("STREAM_KEY is not set")

// FindDue looks up the schedule for (date, slot). A missing row is not an
// error: it is the normal "nothing scheduled today" case and comes back as
// (nil, nil). Status is not filtered.
func FindDue(store db.Store, slot model.Slot, date string) (*model.Schedule, error) {
	rec, err := store.GetScheduleForSlot(date, slot)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type Dispatcher struct {
	Store     db.Store
	StreamKey string
	IngestURL string
	FFmpeg    string
	Events    *notify.Publisher
}

// Run performs one dispatch attempt for the slot: resolve the due item,
// launch ffmpeg, follow its output, log the exit code. One attempt per
// invocation; the next slot's timer is the only retry there is.
func (d *Dispatcher) Run(ctx context.Context, slot model.Slot, date string) error {
	log.Info().Str("slot", string(slot)).Str("date", date).Msg("searching for a scheduled video")

	rec, err := FindDue(d.Store, slot, date)
	if err != nil {
		return err
	}
	if rec == nil {
		log.Info().Str("slot", string(slot)).Str("date", date).Msg("no video scheduled, exiting gracefully")
		return nil
	}

	if d.StreamKey == "" {
		return ErrMissingStreamKey
	}

	log.Info().Str("schedule_id", rec.ID).Str("video_url", rec.VideoURL).Msg("found video, starting stream")

	if updated, err := d.Store.UpdateScheduleStatus(rec.ID, model.StatusStreaming); err != nil {
		log.Error().Err(err).Str("schedule_id", rec.ID).Msg("could not mark schedule streaming")
	} else {
		d.Events.ScheduleChanged("streaming", updated)
	}

	code, err := d.runFFmpeg(ctx, rec.VideoURL)
	if err != nil {
		return err
	}

	log.Info().Str("slot", string(slot)).Int("exit_code", code).Msg("ffmpeg process exited, stream finished")

	if code == 0 {
		if updated, err := d.Store.UpdateScheduleStatus(rec.ID, model.StatusStreamed); err != nil {
			log.Error().Err(err).Str("schedule_id", rec.ID).Msg("could not mark schedule streamed")
		} else {
			d.Events.ScheduleChanged("streamed", updated)
		}
	}
	return nil
}

// runFFmpeg launches the transcode process and follows its output until it
// terminates. The returned int is the child's exit code; err is only set
// when the process could not be started at all.
func (d *Dispatcher) runFFmpeg(ctx context.Context, videoURL string) (int, error) {
	args := []string{
		"-re", "-i", videoURL,
		"-c:v", "libx264", "-preset", "veryfast",
		"-maxrate", "3000k", "-bufsize", "6000k",
		"-pix_fmt", "yuv420p", "-g", "50",
		"-c:a", "aac", "-b:a", "128k", "-ar", "44100",
		"-f", "flv", fmt.Sprintf("%s/%s", d.IngestURL, d.StreamKey),
	}

	cmd := exec.CommandContext(ctx, d.FFmpeg, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, err
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("could not start %s: %w", d.FFmpeg, err)
	}

	go follow(stdout, "ffmpeg stdout")
	go follow(stderr, "ffmpeg stderr")

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

// follow streams the child's diagnostic output into the operator's log.
func follow(r io.Reader, label string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		log.Info().Str("source", label).Msg(scanner.Text())
	}
}
