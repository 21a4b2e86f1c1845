package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Reader reads trimmed input lines without blocking cancellation: a
// background goroutine scans the input while callers wait on a context.
type Reader struct {
	lines chan string
	once  sync.Once
	src   io.Reader
	err   error
	out   io.Writer
	mu    *sync.Mutex
}

// NewReader wraps in. Prompts are written to out under mu, which callers
// share with any other writer of out.
func NewReader(in io.Reader, out io.Writer, mu *sync.Mutex) *Reader {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Reader{lines: make(chan string), src: in, out: out, mu: mu}
}

func (r *Reader) start() {
	go func() {
		sc := bufio.NewScanner(r.src)
		for sc.Scan() {
			r.lines <- strings.TrimSpace(sc.Text())
		}
		r.err = sc.Err()
		close(r.lines)
	}()
}

// ReadLine returns the next line, io.EOF at end of input, or the context
// error if ctx is cancelled first.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	r.once.Do(r.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			if r.err != nil {
				return "", fmt.Errorf("read input: %w", r.err)
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// Ask writes question and reads the answer.
func (r *Reader) Ask(ctx context.Context, question string) (string, error) {
	r.Printf("%s", question)
	return r.ReadLine(ctx)
}

// Printf writes to the output under the shared lock.
func (r *Reader) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Println writes a line to the output under the shared lock.
func (r *Reader) Println(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, args...)
}
