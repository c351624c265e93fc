// Command shadow_compare replays read-only requests against the legacy student
// service and this API and reports status or body mismatches.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
)

type target struct {
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Critical   bool     `json:"critical"`
	IgnoreKeys []string `json:"ignoreKeys"`
}

type targetFile struct {
	IgnoreKeys []string `json:"ignoreKeys"`
	Targets    []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) diverged() bool {
	return c.Error != nil || !c.StatusMatch || !c.BodyMatch
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:5000", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5001", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	logr, _ := zap.NewDevelopment()
	defer logr.Sync() //nolint:errcheck

	targets, err := loadTargets(targetsPath)
	if err != nil {
		logr.Fatal("failed to load targets", zap.String("path", targetsPath), zap.Error(err))
	}

	client := &http.Client{Timeout: timeout}
	ctx := context.Background()
	comparisons := make([]comparison, 0, len(targets))
	var breaking, optionalDiff int
	for _, t := range targets {
		comp := compareTarget(ctx, client, goBase, legacyBase, t)
		if comp.diverged() {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(os.Stdout, comparisons)
	logr.Info("shadow comparison finished", zap.Int("breaking", breaking), zap.Int("optional", optionalDiff))
	if breaking > 0 {
		os.Exit(1)
	}
}

// loadTargets reads the target list. File-level ignoreKeys apply to every target.
func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for i := range file.Targets {
		file.Targets[i].IgnoreKeys = append(file.Targets[i].IgnoreKeys, file.IgnoreKeys...)
	}
	return file.Targets, nil
}

func compareTarget(ctx context.Context, client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goStatus, goBody, goDur, goErr := fetch(ctx, client, goBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := fetch(ctx, client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody, tgt.IgnoreKeys)
	return comp
}

func fetch(ctx context.Context, client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// bodiesEqual compares two payloads. JSON bodies are compared structurally with the
// ignored keys removed at every depth.
func bodiesEqual(a, b []byte, ignore []string) bool {
	if len(ignore) == 0 && bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, key := range ignore {
		skip[key] = struct{}{}
	}
	return reflect.DeepEqual(strip(aj, skip), strip(bj, skip))
}

func strip(v interface{}, skip map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if _, ok := skip[k]; ok {
				delete(val, k)
				continue
			}
			val[k] = strip(inner, skip)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = strip(inner, skip)
		}
		return val
	default:
		return v
	}
}

func printReport(w io.Writer, comparisons []comparison) {
	fmt.Fprintf(w, "%-7s %-40s %-8s %-8s %-6s %-6s %s\n", "METHOD", "PATH", "LEGACY", "GO", "STATUS", "BODY", "NOTE")
	for _, c := range comparisons {
		note := ""
		if c.Error != nil {
			note = c.Error.Error()
		} else if c.Target.Critical && c.diverged() {
			note = "critical"
		}
		fmt.Fprintf(w, "%-7s %-40s %-8d %-8d %-6t %-6t %s\n",
			strings.ToUpper(c.Target.Method), c.Target.Path, c.LegacyStatus, c.GoStatus, c.StatusMatch, c.BodyMatch, note)
	}
}
