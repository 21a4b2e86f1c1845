package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReader(strings.NewReader("  one \ntwo\n"), &out, nil)
	ctx := context.Background()

	line, err := r.Ask(ctx, "first? ")
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "first? ", out.String())
}

func TestReadLine_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewReader(pr, io.Discard, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
