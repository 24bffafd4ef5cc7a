package tuitest

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

// Screen is one normalized terminal render.
type Screen struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearSeq = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiSeq   = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSeq   = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

// splitScreens cuts the raw stream at erase-display sequences, which is where
// a full-screen program repaints.
func splitScreens(raw []byte) []Screen {
	cleaned := strings.ReplaceAll(string(raw), "\r", "")
	screens := make([]Screen, 0, 8)
	for _, segment := range clearSeq.Split(cleaned, -1) {
		segment = strings.Trim(segment, "\x00")
		segment = strings.TrimPrefix(segment, "\x1b[H")
		if segment == "" {
			continue
		}
		plain := stripControl(segment)
		if strings.TrimSpace(plain) == "" {
			continue
		}
		screens = append(screens, Screen{
			Index: len(screens),
			ANSI:  segment,
			Plain: trimScreen(plain),
		})
	}
	if len(screens) == 0 && len(cleaned) > 0 {
		screens = append(screens, Screen{ANSI: cleaned, Plain: trimScreen(stripControl(cleaned))})
	}
	return screens
}

func stripControl(s string) string {
	s = oscSeq.ReplaceAllString(s, "")
	s = csiSeq.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x0f", "")
	s = strings.ReplaceAll(s, "\x0e", "")
	return s
}

func trimScreen(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// queryAnswerer replies to terminal capability queries the program sends, so
// it does not stall waiting for a real terminal.
type queryAnswerer struct {
	out io.Writer
	buf []byte
}

func newQueryAnswerer(out io.Writer) *queryAnswerer {
	return &queryAnswerer{out: out, buf: make([]byte, 0, 128)}
}

func (q *queryAnswerer) Feed(chunk []byte) {
	q.buf = append(q.buf, chunk...)
	for q.answerOne() {
	}
	// Keep a tail so queries split across reads are still detected.
	if len(q.buf) > 256 {
		q.buf = q.buf[len(q.buf)-64:]
	}
}

var queryReplies = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

func (q *queryAnswerer) answerOne() bool {
	for _, qr := range queryReplies {
		if idx := bytes.Index(q.buf, qr.query); idx >= 0 {
			q.buf = q.buf[idx+len(qr.query):]
			_, _ = q.out.Write(qr.reply)
			return true
		}
	}
	return false
}
