// Package uploader pushes a local seed directory into a Supabase Storage
// bucket. It is the write side of the assets surface: the server reads the
// objects this pipeline put there.
package uploader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// maxDryRunList caps how many planned keys a dry run logs.
	maxDryRunList = 50
	// logEvery is the upload progress interval.
	logEvery = 25
	// maxErrorBody caps how much of an error response ends up in the error.
	maxErrorBody = 300
)

// Config holds one upload run's settings.
type Config struct {
	SupabaseURL       string
	Bucket            string
	Token             string
	SeedDir           string
	Upsert            bool
	DryRun            bool
	PreserveWebPrefix bool
	Timeout           time.Duration
}

// Object pairs a bucket key with the local file that backs it.
type Object struct {
	Key  string
	Path string
}

// Result summarizes an upload run.
type Result struct {
	Planned  int
	Uploaded int
}

// Uploader walks a seed directory and PUTs each file into Supabase Storage.
type Uploader struct {
	log        *slog.Logger
	httpClient *http.Client
	cfg        Config
}

// New creates an Uploader.
func New(cfg Config, logger *slog.Logger) *Uploader {
	return &Uploader{
		log:        logger.With("service", "uploader"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Run collects the seed files and uploads them in key order. A dry run only
// logs what would be uploaded. The first failed upload aborts the run.
func (u *Uploader) Run(ctx context.Context) (Result, error) {
	objects, err := CollectObjects(u.cfg.SeedDir, u.cfg.PreserveWebPrefix)
	if err != nil {
		return Result{}, err
	}

	u.log.Info("seed scan completed",
		slog.String("dir", u.cfg.SeedDir),
		slog.String("bucket", u.cfg.Bucket),
		slog.Int("files", len(objects)),
		slog.Bool("upsert", u.cfg.Upsert),
		slog.Bool("preserve_web_prefix", u.cfg.PreserveWebPrefix),
	)

	if u.cfg.DryRun {
		for i, obj := range objects {
			if i == maxDryRunList {
				u.log.Info("dry run truncated", slog.Int("more", len(objects)-maxDryRunList))
				break
			}
			u.log.Info("would upload", slog.String("key", obj.Key))
		}
		return Result{Planned: len(objects)}, nil
	}

	for i, obj := range objects {
		if err := u.put(ctx, obj); err != nil {
			return Result{Planned: len(objects), Uploaded: i}, err
		}
		n := i + 1
		if n == 1 || n%logEvery == 0 || n == len(objects) {
			u.log.Info("upload progress", slog.Int("done", n), slog.Int("total", len(objects)))
		}
	}

	return Result{Planned: len(objects), Uploaded: len(objects)}, nil
}

// CollectObjects walks seedDir and returns the objects to upload in
// deterministic key order. When seedDir/web exists and preserveWebPrefix is
// false, files under web/ map to the bucket root (web/index.html becomes
// index.html) and root files whose keys collide with a flattened web key are
// dropped in favor of the web copy.
func CollectObjects(seedDir string, preserveWebPrefix bool) ([]Object, error) {
	info, err := os.Stat(seedDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("seed dir not found: %s", seedDir)
	}

	all, err := walkFiles(seedDir)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", seedDir, err)
	}

	flatten := false
	if !preserveWebPrefix {
		if wi, err := os.Stat(filepath.Join(seedDir, "web")); err == nil && wi.IsDir() {
			flatten = true
		}
	}

	objects := all
	if flatten {
		webKeys := make(map[string]bool)
		for _, obj := range all {
			if rest, ok := strings.CutPrefix(obj.Key, "web/"); ok {
				webKeys[rest] = true
			}
		}

		objects = make([]Object, 0, len(all))
		for _, obj := range all {
			if rest, ok := strings.CutPrefix(obj.Key, "web/"); ok {
				objects = append(objects, Object{Key: rest, Path: obj.Path})
				continue
			}
			if webKeys[obj.Key] {
				continue
			}
			objects = append(objects, obj)
		}
	}

	if len(objects) == 0 {
		return nil, fmt.Errorf("no files found under %s", seedDir)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func walkFiles(base string) ([]Object, error) {
	var objects []Object
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		objects = append(objects, Object{Key: filepath.ToSlash(rel), Path: path})
		return nil
	})
	return objects, err
}

func (u *Uploader) put(ctx context.Context, obj Object) error {
	f, err := os.Open(obj.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", obj.Path, err)
	}
	defer f.Close()

	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.cfg.SupabaseURL, u.cfg.Bucket, escapeKey(obj.Key))
	if u.cfg.Upsert {
		reqURL += "?upsert=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, f)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", u.cfg.Token)
	req.Header.Set("Authorization", "Bearer "+u.cfg.Token)
	req.Header.Set("Content-Type", contentTypeFor(obj.Path))

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", obj.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload %s: status %d: %s", obj.Key, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return nil
}

// contentTypeFor forces an explicit charset for common web types; OS mime
// registries map some of them inconsistently.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// escapeKey escapes each path segment while keeping the separators literal,
// so "pasta um/a.svg" becomes "pasta%20um/a.svg".
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
