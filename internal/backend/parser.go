// Package backend implements the server side of the Instrumental line
// protocol: a TCP listener that answers the hello/authenticate handshake and
// ingests gauge and notice lines into a repository.
package backend

import (
	"fmt"
	"strconv"
	"strings"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
	models "github.com/Schera-ole/instrumental/internal/model"
)

// LineKind identifies the command of a parsed protocol line.
type LineKind int

const (
	LineHello LineKind = iota
	LineAuthenticate
	LineGauge
	LineNotice
)

// Line is one parsed protocol command. Only the fields matching Kind are set.
type Line struct {
	Kind LineKind

	// Hello carries the key/value pairs of a hello line
	Hello map[string]string

	// APIKey carries the credential of an authenticate line
	APIKey string

	// Gauge carries a parsed metric line
	Gauge models.GaugePoint

	// Notice carries a parsed annotation line
	Notice models.NoticeEvent
}

// ParseLine parses one \n-terminated protocol command.
func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r\n")
	command, rest, _ := strings.Cut(raw, " ")

	switch command {
	case "hello":
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields)%2 != 0 {
			return Line{}, fmt.Errorf("%w: hello %q", internalerrors.ErrMalformedLine, rest)
		}
		pairs := make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			pairs[fields[i]] = fields[i+1]
		}
		return Line{Kind: LineHello, Hello: pairs}, nil

	case "authenticate":
		if rest == "" || strings.ContainsAny(rest, " ") {
			return Line{}, fmt.Errorf("%w: authenticate", internalerrors.ErrMalformedLine)
		}
		return Line{Kind: LineAuthenticate, APIKey: rest}, nil

	case "gauge", "increment":
		fields := strings.Fields(rest)
		if len(fields) != 3 {
			return Line{}, fmt.Errorf("%w: %s %q", internalerrors.ErrMalformedLine, command, rest)
		}
		timestamp, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Line{}, fmt.Errorf("%w: bad timestamp %q", internalerrors.ErrMalformedLine, fields[2])
		}
		return Line{Kind: LineGauge, Gauge: models.GaugePoint{
			Name:      fields[0],
			Value:     fields[1],
			Timestamp: timestamp,
		}}, nil

	case "notice":
		parts := strings.SplitN(rest, " ", 3)
		if len(parts) != 3 {
			return Line{}, fmt.Errorf("%w: notice %q", internalerrors.ErrMalformedLine, rest)
		}
		timestamp, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Line{}, fmt.Errorf("%w: bad timestamp %q", internalerrors.ErrMalformedLine, parts[0])
		}
		duration, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Line{}, fmt.Errorf("%w: bad duration %q", internalerrors.ErrMalformedLine, parts[1])
		}
		return Line{Kind: LineNotice, Notice: models.NoticeEvent{
			Timestamp:   timestamp,
			Duration:    duration,
			Description: parts[2],
		}}, nil

	default:
		return Line{}, fmt.Errorf("%w: %q", internalerrors.ErrUnknownCommand, command)
	}
}
