package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_NewestFirst(t *testing.T) {
	l := New(time.Minute)
	defer l.Close()

	l.Add("u1", "first")
	l.Add("u1", "second")
	l.Add("u2", "other")

	require.Equal(t, []string{"second", "first"}, l.Lines("u1"))
	require.Equal(t, []string{"other"}, l.Lines("u2"))
	require.Empty(t, l.Lines("u3"))
}

func TestLog_Reset(t *testing.T) {
	l := New(time.Minute)
	defer l.Close()

	l.Add("u1", "old")
	l.Reset("u1")
	l.Add("u1", "Signed in as u1")

	require.Equal(t, []string{"Signed in as u1"}, l.Lines("u1"))
}

func TestLog_Bounded(t *testing.T) {
	l := New(time.Minute)
	defer l.Close()

	for i := range maxLines + 10 {
		l.Add("u1", fmt.Sprint(i))
	}

	lines := l.Lines("u1")
	require.Len(t, lines, maxLines)
	require.Equal(t, fmt.Sprint(maxLines+9), lines[0])
}

func TestLog_IgnoresAnonymous(t *testing.T) {
	l := New(time.Minute)
	defer l.Close()

	l.Add("", "nobody")
	require.Empty(t, l.Lines(""))
}

func TestLog_LinesIsACopy(t *testing.T) {
	l := New(time.Minute)
	defer l.Close()

	l.Add("u1", "a")
	got := l.Lines("u1")
	got[0] = "changed"

	require.Equal(t, []string{"a"}, l.Lines("u1"))
}

func TestLog_ReadsDontExtendExpiry(t *testing.T) {
	l := New(300 * time.Millisecond)
	defer l.Close()

	l.Add("u1", "Upload OK: u1/1-a.png")

	time.Sleep(200 * time.Millisecond)
	require.Len(t, l.Lines("u1"), 1)

	time.Sleep(200 * time.Millisecond)
	require.Empty(t, l.Lines("u1"))
}
