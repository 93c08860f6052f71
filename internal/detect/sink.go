package detect

import (
	"bufio"
	"io"
	"sync"
)

// Sink receives detected records in emission order.
type Sink interface {
	Emit(rec Record) error
}

type SinkFunc func(rec Record) error

func (f SinkFunc) Emit(rec Record) error { return f(rec) }

// LineSink writes one output line per record. Call Flush when done.
type LineSink struct {
	w *bufio.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: bufio.NewWriter(w)}
}

func (s *LineSink) Emit(rec Record) error {
	if _, err := s.w.WriteString(rec.String()); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *LineSink) Flush() error { return s.w.Flush() }

// Collector keeps every record in memory.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

func (c *Collector) Emit(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return nil
}

func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}
