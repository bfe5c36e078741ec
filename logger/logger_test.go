package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintError(t *testing.T) {
	l := Init()
	l.PrintError("Load", errors.New("no such file"))
	assert.Equal(t, "Error(Load) -> no such file", <-l.Prints)
}

func TestPrintf(t *testing.T) {
	l := Init()
	l.Printf("volume %d%%", 40)
	l.Print("plain")
	assert.Equal(t, "volume 40%", <-l.Prints)
	assert.Equal(t, "plain", <-l.Prints)
}

func TestDrainTo(t *testing.T) {
	l := Init()
	var buf bytes.Buffer
	done := make(chan struct{})
	w := writerFunc(func(p []byte) (int, error) {
		n, err := buf.Write(p)
		close(done)
		return n, err
	})
	l.DrainTo(w)
	l.Print("hello")
	<-done
	assert.Contains(t, buf.String(), "hello")
	close(l.Prints)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
