package eventlog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Event blocks in a job event log are terminated by a line of three dots.
var blockTerminator = []byte("\n...\n")

// Header shape: NNN (cluster.proc.subproc) <timestamp> <message>
var headerRE = regexp.MustCompile(`^(\d{3}) \((\d+)\.(\d+)\.(\d+)\) (\S+ \S+)`)

// Timestamp layouts seen in the wild: the legacy form without a year and the
// ISO form newer schedulers write.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"01/02 15:04:05",
	"01/02/06 15:04:05",
}

// Cursor is a non-blocking reader over one append-only event log. Next
// returns only complete, terminator-delimited event blocks; a partially
// written block stays in the file until a later poll. The cursor can be
// reopened at Offset() to resume where it left off.
type Cursor struct {
	path   string
	f      *os.File
	buf    []byte
	offset int64 // file position of the first byte not yet consumed by buf
}

// Open positions a cursor at the given byte offset (0 for the beginning).
func Open(path string, offset int64) (*Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return &Cursor{path: path, f: f, offset: offset}, nil
}

// Path returns the event log path this cursor reads from.
func (c *Cursor) Path() string { return c.path }

// Offset returns the resume position: the start of the first unconsumed block.
func (c *Cursor) Offset() int64 { return c.offset - int64(len(c.buf)) }

// Close releases the underlying file.
func (c *Cursor) Close() error { return c.f.Close() }

// Next returns the next complete event, if one is available. ok is false
// when no terminated block has been appended yet. A block that fails to
// parse is consumed and reported as an error; the stream remains usable.
func (c *Cursor) Next() (Event, bool, error) {
	block, ok, err := c.nextBlock()
	if err != nil || !ok {
		return Event{}, false, err
	}
	ev, err := parseBlock(c.path, block)
	if err != nil {
		return Event{}, false, err
	}
	return ev, true, nil
}

func (c *Cursor) nextBlock() ([]byte, bool, error) {
	for {
		if i := bytes.Index(c.buf, blockTerminator); i >= 0 {
			block := c.buf[:i]
			c.buf = c.buf[i+len(blockTerminator):]
			return block, true, nil
		}

		chunk := make([]byte, 64*1024)
		n, err := c.f.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
			c.offset += int64(n)
		}
		if err == io.EOF {
			if n == 0 {
				return nil, false, nil
			}
			continue
		}
		if err != nil {
			return nil, false, err
		}
	}
}

func parseBlock(path string, block []byte) (Event, error) {
	// Tolerate a leading newline left over from sloppy writers.
	block = bytes.TrimLeft(block, "\n")

	m := headerRE.FindSubmatch(block)
	if m == nil {
		line, _, _ := bytes.Cut(block, []byte("\n"))
		return Event{}, fmt.Errorf("malformed event header %q", string(line))
	}

	kind, _ := strconv.Atoi(string(m[1]))
	cluster, _ := strconv.Atoi(string(m[2]))
	proc, _ := strconv.Atoi(string(m[3]))
	subproc, _ := strconv.Atoi(string(m[4]))

	ts, err := parseTimestamp(string(m[5]))
	if err != nil {
		return Event{}, fmt.Errorf("event %s.%s: %v", m[2], m[3], err)
	}

	return Event{
		Path:      path,
		Cluster:   cluster,
		Proc:      proc,
		SubProc:   subproc,
		Kind:      EventKind(kind),
		Timestamp: ts,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			// Legacy layouts carry no year; pin to the current one.
			if t.Year() == 0 {
				t = t.AddDate(time.Now().Year(), 0, 0)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
