package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesDumpAndNotifies(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDashboard(t)

	feed(d,
		"# mode: wall",
		"P42;T1;app.py:main:10 5000",
	)

	_, cmd := d.Update(keyRune('s'))
	if cmd == nil {
		t.Fatal("save key returned no command")
	}
	raw := cmd()
	msg, ok := raw.(saveDoneMsg)
	if !ok {
		t.Fatalf("save command produced %T, want saveDoneMsg", raw)
	}
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}

	base := filepath.Base(msg.path)
	if !strings.HasPrefix(base, "proftop_") || !strings.HasSuffix(base, "_42.prof") {
		t.Errorf("dump name = %q, want proftop_<time>_42.prof", base)
	}

	raw, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	content := string(raw)

	if !strings.HasPrefix(content, "# mode: wall\n") {
		t.Errorf("dump must open with the stream metadata, got %q", content)
	}
	if !strings.Contains(content, "# duration: ") {
		t.Error("dump is missing the session duration entry")
	}
	if !strings.Contains(content, "\n\n") {
		t.Error("dump is missing the blank line after the metadata")
	}
	if !strings.Contains(content, "P42;T1 0 5000\n") {
		t.Errorf("dump is missing the thread row:\n%s", content)
	}
	if !strings.Contains(content, "P42;T1;app.py:main:10 5000 5000\n") {
		t.Errorf("dump is missing the frame row:\n%s", content)
	}

	d.Update(msg)
	if got := d.w.notify.Text().String(); !strings.Contains(got, "Stats saved as") {
		t.Errorf("notification = %q", got)
	}
}

func TestSaveKeepsSamplerDurationEntry(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDashboard(t)

	feed(d,
		"P42;T1;app.py:main:10 5000",
		"# duration: 123456",
	)

	_, cmd := d.Update(keyRune('s'))
	msg := cmd().(saveDoneMsg)
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}
	raw, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "# duration: 123456\n") {
		t.Errorf("sampler trailer entry missing:\n%s", content)
	}
	if got := strings.Count(content, "# duration"); got != 1 {
		t.Errorf("duration entries = %d, the trailer value must not be doubled", got)
	}
}

func TestSaveWhilePausedDumpsTheSnapshot(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDashboard(t)

	feed(d, "P42;T1;app.py:main:10 5000")
	d.Update(keyRune('p'))
	feed(d, "P42;T1;app.py:late:99 700")

	_, cmd := d.Update(keyRune('s'))
	msg := cmd().(saveDoneMsg)
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}
	raw, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "app.py:main:10") {
		t.Errorf("snapshot row missing:\n%s", content)
	}
	if strings.Contains(content, "app.py:late:99") {
		t.Errorf("dump leaked samples ingested after the pause:\n%s", content)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDashboard(t)
	d.saveDir = filepath.Join(d.saveDir, "does", "not", "exist")

	feed(d, "P42;T1;app.py:main:10 5000")

	_, cmd := d.Update(keyRune('s'))
	msg := cmd().(saveDoneMsg)
	if msg.err == nil {
		t.Fatal("save into a missing directory must fail")
	}

	d.Update(msg)
	got := d.w.notify.Text().String()
	if !strings.Contains(got, "Failed to save stats") {
		t.Errorf("notification = %q", got)
	}
	if d.w.notify.Text()[0].At.Color != "error" {
		t.Errorf("notification attr = %+v, want the error color", d.w.notify.Text()[0].At)
	}
}
