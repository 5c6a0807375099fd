//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

// Both backends are seeded with the same rows; only the column types differ.
var seedStations = []string{"USC00519397", "USC00519281"}

var seedMeasurements = []struct {
	station string
	date    string
	prcp    string // SQL literal
	tobs    string
}{
	{"USC00519397", "2016-08-23", "0.0", "70"},
	{"USC00519397", "2017-01-01", "NULL", "65"},
	{"USC00519281", "2017-01-01", "0.2", "71"},
}

func seedInserts() string {
	var b strings.Builder
	b.WriteString("INSERT INTO station (station, name, latitude, longitude, elevation) VALUES\n")
	b.WriteString("  ('USC00519397', 'WAIKIKI 717.2, HI US', 21.2716, -157.8168, 3.0),\n")
	b.WriteString("  ('USC00519281', 'WAIHEE 837.5, HI US', 21.45167, -157.84889, 32.9);\n")
	b.WriteString("INSERT INTO measurement (station, date, prcp, tobs) VALUES\n")
	for i, m := range seedMeasurements {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %s, %s)", m.station, m.date, m.prcp, m.tobs)
	}
	b.WriteString(";\n")
	return b.String()
}

// startServer builds and runs the binary with env on a free port and
// returns its base URL once /healthz answers.
func startServer(t *testing.T, env ...string) string {
	t.Helper()

	bin := buildBinary(t, repoRootPath(t))
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin, "--env-file=")
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
	)
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	base := "http://" + addr
	waitForOK(t, &http.Client{Timeout: 2 * time.Second}, base+"/healthz", 10*time.Second)
	t.Cleanup(func() { stopServer(t, cmd) })
	return base
}

// checkRoutes drives every API route against the seeded rows.
func checkRoutes(t *testing.T, base string) {
	client := &http.Client{Timeout: 2 * time.Second}

	t.Run("healthz", func(t *testing.T) {
		var body map[string]string
		getJSON(t, client, base+"/healthz", http.StatusOK, &body)
		if body["status"] != "ok" {
			t.Fatalf("body.status=%q want=%q", body["status"], "ok")
		}
	})

	t.Run("stations", func(t *testing.T) {
		var stations []string
		getJSON(t, client, base+"/api/v1.0/stations", http.StatusOK, &stations)
		if len(stations) != len(seedStations) || stations[0] != seedStations[0] || stations[1] != seedStations[1] {
			t.Fatalf("stations=%v want=%v", stations, seedStations)
		}
	})

	t.Run("precipitation", func(t *testing.T) {
		var raw []map[string]any
		getJSON(t, client, base+"/api/v1.0/precipitation", http.StatusOK, &raw)
		if len(raw) != len(seedMeasurements) {
			t.Fatalf("got %d records, want %d", len(raw), len(seedMeasurements))
		}
		for i, m := range seedMeasurements {
			if raw[i]["Date"] != m.date {
				t.Errorf("records[%d].Date=%v want=%s", i, raw[i]["Date"], m.date)
			}
		}
		if v, ok := raw[1]["Precipitation"]; !ok || v != nil {
			t.Errorf("records[1].Precipitation=%v want null", v)
		}
	})

	t.Run("summary from", func(t *testing.T) {
		checkSummary(t, client, base+"/api/v1.0/20170101", 65, 71, 68)
	})

	t.Run("summary range", func(t *testing.T) {
		checkSummary(t, client, base+"/api/v1.0/20160823/20160823", 70, 70, 70)
	})

	t.Run("tobs", func(t *testing.T) {
		var obs []map[string]any
		getJSON(t, client, base+"/api/v1.0/tobs", http.StatusOK, &obs)
		want := []struct {
			date string
			temp float64
		}{{"2016-08-23", 70}, {"2017-01-01", 65}}
		if len(obs) != len(want) {
			t.Fatalf("obs=%v", obs)
		}
		for i, w := range want {
			if obs[i]["Date"] != w.date || obs[i]["Temperature Observation"] != w.temp {
				t.Errorf("obs[%d]=%v want %s/%v", i, obs[i], w.date, w.temp)
			}
		}
	})

	t.Run("bad date", func(t *testing.T) {
		var body map[string]string
		getJSON(t, client, base+"/api/v1.0/20161301", http.StatusBadRequest, &body)
		if body["error"] != "Bad Request" {
			t.Fatalf("body=%v", body)
		}
	})
}

func checkSummary(t *testing.T, client *http.Client, url string, lo, hi, avg float64) {
	t.Helper()

	var summary []map[string]*float64
	getJSON(t, client, url, http.StatusOK, &summary)
	if len(summary) != 1 {
		t.Fatalf("summary=%v", summary)
	}
	for key, want := range map[string]float64{
		"Minimum Temperature": lo,
		"Maximum Temperature": hi,
		"Average Temperature": avg,
	} {
		if got := summary[0][key]; got == nil || *got != want {
			t.Errorf("%s=%v want=%v", key, got, want)
		}
	}
}

func getJSON(t *testing.T, client *http.Client, url string, wantStatus int, out any) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status=%d want=%d", url, resp.StatusCode, wantStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "climate-server")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
