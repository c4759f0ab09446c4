// Package audit fans received notices out to audit destinations.
//
// Notices arrive on a channel and are broadcast to subscriber channels; a
// file subscriber and an HTTP subscriber are provided. Full channels drop
// events rather than block the ingest path.
package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	models "github.com/Schera-ole/instrumental/internal/model"
)

// NoticeLogger publishes accepted notices for auditing.
type NoticeLogger interface {
	// Log submits a notice; it never blocks.
	Log(notice models.NoticeEvent)
}

// channelLogger sends notices to a channel, dropping when full.
type channelLogger struct {
	events chan<- models.NoticeEvent
	logger *zap.SugaredLogger
}

// NewNoticeLogger creates a NoticeLogger feeding the given channel.
func NewNoticeLogger(events chan<- models.NoticeEvent, logger *zap.SugaredLogger) NoticeLogger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &channelLogger{events: events, logger: logger}
}

// Log submits a notice, dropping it when the channel is full.
func (l *channelLogger) Log(notice models.NoticeEvent) {
	select {
	case l.events <- notice:
	default:
		l.logger.Infof("audit: dropped notice, channel is full")
	}
}

// Broadcaster distributes notices from source to every subscriber channel.
// Blocked subscribers lose the event rather than stall the others.
func Broadcaster(logger *zap.SugaredLogger, source <-chan models.NoticeEvent, subs ...chan<- models.NoticeEvent) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	for notice := range source {
		for _, sub := range subs {
			select {
			case sub <- notice:
			default:
				logger.Infof("audit: dropped notice for blocked subscriber")
			}
		}
	}
}

// FileSubscriber appends notices as JSON lines to the given file.
func FileSubscriber(logger *zap.SugaredLogger, events <-chan models.NoticeEvent, path string) {
	for notice := range events {
		data, err := json.Marshal(notice)
		if err != nil {
			logger.Warnf("audit: marshaling notice: %v", err)
			continue
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logger.Warnf("audit: opening %s: %v", path, err)
			continue
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			logger.Warnf("audit: writing to %s: %v", path, err)
		}
		f.Close()
	}
}

// URLSubscriber posts notices as JSON to the given HTTP endpoint.
func URLSubscriber(logger *zap.SugaredLogger, events <-chan models.NoticeEvent, url string) {
	for notice := range events {
		data, err := json.Marshal(notice)
		if err != nil {
			logger.Warnf("audit: marshaling notice: %v", err)
			continue
		}
		resp, err := http.Post(url, "application/json", bytes.NewReader(data))
		if err != nil {
			logger.Warnf("audit: posting to %s: %v", url, err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
