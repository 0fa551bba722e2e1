// Command seed-upload pushes a local seed directory into a Supabase Storage
// bucket. By default seed-dir/web/** flattens to the bucket root, so
// web/index.html is served as index.html.
//
// Flags:
//
//	-seed-dir             seed directory (default $SUPABASE_SEED_DIR or ./supabase_seed)
//	-bucket               target bucket (default $SUPABASE_BUCKET or "web")
//	-token-env            env var holding the upload token (default SUPABASE_SERVICE_ROLE_KEY)
//	-upsert               overwrite existing objects
//	-dry-run              list what would be uploaded without writing
//	-timeout              per-request timeout (default 60s)
//	-preserve-web-prefix  keep web/** keys instead of flattening
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/emakua-backend/internal/adapter/provider/supabase"
	"github.com/heartmarshall/emakua-backend/internal/app"
	"github.com/heartmarshall/emakua-backend/internal/app/uploader"
	"github.com/heartmarshall/emakua-backend/internal/config"
)

func main() {
	// .env first so flag defaults can come from it.
	godotenv.Load() //nolint:errcheck

	seedDirFlag := flag.String("seed-dir", envOr("SUPABASE_SEED_DIR", "./supabase_seed"), "path to the seed directory")
	bucketFlag := flag.String("bucket", envOr("SUPABASE_BUCKET", "web"), "target storage bucket")
	tokenEnvFlag := flag.String("token-env", "SUPABASE_SERVICE_ROLE_KEY", "env var holding a key allowed to upload objects")
	upsertFlag := flag.Bool("upsert", false, "overwrite existing objects")
	dryRunFlag := flag.Bool("dry-run", false, "list what would be uploaded without writing")
	timeoutFlag := flag.Duration("timeout", 60*time.Second, "per-request timeout")
	preserveFlag := flag.Bool("preserve-web-prefix", false, "keep web/** keys instead of flattening to the bucket root")
	flag.Parse()

	logger := app.NewLogger(config.LogConfig{Level: "info", Format: "text"})

	supabaseURL := strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/")
	if supabaseURL == "" {
		log.Fatal("SUPABASE_URL is not set")
	}

	token := os.Getenv(*tokenEnvFlag)
	if token == "" {
		log.Fatalf("missing upload token: set %s (a service-role key is expected)", *tokenEnvFlag)
	}

	if info, err := supabase.InspectKey(token); err != nil {
		logger.Warn("upload token is not a decodable JWT", slog.String("error", err.Error()))
	} else if !info.IsServiceRole() {
		logger.Warn("upload token role is not service_role; storage writes may be rejected",
			slog.String("role", info.Role),
		)
	}

	u := uploader.New(uploader.Config{
		SupabaseURL:       supabaseURL,
		Bucket:            *bucketFlag,
		Token:             token,
		SeedDir:           *seedDirFlag,
		Upsert:            *upsertFlag,
		DryRun:            *dryRunFlag,
		PreserveWebPrefix: *preserveFlag,
		Timeout:           *timeoutFlag,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	res, err := u.Run(ctx)
	if err != nil {
		logger.Error("upload failed",
			slog.String("error", err.Error()),
			slog.Int("uploaded", res.Uploaded),
			slog.Int("planned", res.Planned),
		)
		os.Exit(1)
	}

	logger.Info("upload completed",
		slog.Int("uploaded", res.Uploaded),
		slog.Int("planned", res.Planned),
	)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
