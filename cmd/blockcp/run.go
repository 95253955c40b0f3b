package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/blockio"
	"github.com/hupe1980/blockio/blobstore"
	minioblob "github.com/hupe1980/blockio/blobstore/minio"
	s3blob "github.com/hupe1980/blockio/blobstore/s3"
	"github.com/hupe1980/blockio/lowlevel"
	"github.com/hupe1980/blockio/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	backendLocal = "local"
	backendMinio = "minio"
	backendS3    = "s3"
)

// cliConfig captures parsed command-line flags.
type cliConfig struct {
	showVersion bool
	blockSize   int
	backend     string
	root        string
	bucket      string
	prefix      string
	endpoint    string
	region      string
	accessKey   string
	secretKey   string
	secure      bool
	rate        int64
	workers     int64
	logLevel    string
	jsonLogs    bool
	src         string
	dst         string
}

type cliError struct {
	exitCode int
	msg      string
	printed  bool
}

func (e *cliError) Error() string {
	return e.msg
}

type runDeps struct {
	newMinioStore func(context.Context, cliConfig) (blobstore.BlobStore, error)
	newS3Store    func(context.Context, cliConfig) (blobstore.BlobStore, error)
	signalContext func() (context.Context, context.CancelFunc)
	getenv        func(string) string
	logOut        io.Writer
	versionOut    func(string)
}

func defaultDeps() runDeps {
	return runDeps{
		newMinioStore: func(_ context.Context, cfg cliConfig) (blobstore.BlobStore, error) {
			client, err := minio.New(cfg.endpoint, &minio.Options{
				Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretKey, ""),
				Secure: cfg.secure,
			})
			if err != nil {
				return nil, err
			}
			return minioblob.NewStore(client, cfg.bucket, cfg.prefix), nil
		},
		newS3Store: func(ctx context.Context, cfg cliConfig) (blobstore.BlobStore, error) {
			opts := []s3blob.Option{s3blob.WithPrefix(cfg.prefix)}
			if cfg.region != "" {
				opts = append(opts, s3blob.WithRegion(cfg.region))
			}
			if cfg.endpoint != "" {
				opts = append(opts, s3blob.WithEndpoint(cfg.endpoint))
			}
			if cfg.accessKey != "" {
				opts = append(opts, s3blob.WithStaticCredentials(cfg.accessKey, cfg.secretKey))
			}
			return s3blob.New(ctx, cfg.bucket, opts...)
		},
		signalContext: func() (context.Context, context.CancelFunc) {
			return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		},
		getenv: os.Getenv,
		logOut: os.Stderr,
		versionOut: func(s string) {
			fmt.Print(s)
		},
	}
}

func usage(prog string) string {
	return fmt.Sprintf("Usage: %s [flags] SRC DST", prog)
}

func parseArgs(args []string) (cliConfig, error) {
	var cfg cliConfig
	if len(args) == 0 {
		return cfg, &cliError{exitCode: 1, msg: usage("blockcp")}
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	showVersion := fs.Bool("version", false, "print version and exit")
	blockSize := fs.Int("block-size", 4096, "size in bytes of each copied block")
	backend := fs.String("backend", backendLocal, "storage backend: local, minio, s3")
	root := fs.String("root", ".", "root directory for the local backend")
	bucket := fs.String("bucket", "", "bucket for the minio and s3 backends")
	prefix := fs.String("prefix", "", "key prefix inside the bucket")
	endpoint := fs.String("endpoint", "", "object storage endpoint (required for minio)")
	region := fs.String("region", "", "AWS region for the s3 backend")
	accessKey := fs.String("access-key", "", "access key (default $MINIO_ACCESS_KEY for minio)")
	secretKey := fs.String("secret-key", "", "secret key (default $MINIO_SECRET_KEY for minio)")
	secure := fs.Bool("secure", false, "use TLS for the minio backend")
	rate := fs.Int64("rate", 0, "I/O limit in bytes per second (0 = unlimited)")
	workers := fs.Int64("workers", 2, "async worker slots; 2 overlaps reading and writing")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	jsonLogs := fs.Bool("json", false, "emit logs as JSON")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, &cliError{exitCode: 0, printed: true}
		}
		return cfg, &cliError{exitCode: 2, msg: err.Error(), printed: true}
	}

	cfg = cliConfig{
		showVersion: *showVersion,
		blockSize:   *blockSize,
		backend:     strings.ToLower(*backend),
		root:        *root,
		bucket:      *bucket,
		prefix:      *prefix,
		endpoint:    *endpoint,
		region:      *region,
		accessKey:   *accessKey,
		secretKey:   *secretKey,
		secure:      *secure,
		rate:        *rate,
		workers:     *workers,
		logLevel:    *logLevel,
		jsonLogs:    *jsonLogs,
	}

	if cfg.showVersion {
		return cfg, nil
	}

	if fs.NArg() != 2 {
		return cfg, &cliError{exitCode: 1, msg: usage(args[0])}
	}
	cfg.src = fs.Arg(0)
	cfg.dst = fs.Arg(1)

	return cfg, nil
}

func validateConfig(cfg cliConfig) error {
	if cfg.blockSize <= 0 {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Invalid block size: %d (must be positive)", cfg.blockSize)}
	}
	if cfg.rate < 0 {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Invalid rate: %d (must not be negative)", cfg.rate)}
	}
	if cfg.workers <= 0 {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Invalid worker count: %d (must be positive)", cfg.workers)}
	}
	if _, err := parseLevel(cfg.logLevel); err != nil {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Invalid log level: %q", cfg.logLevel)}
	}

	switch cfg.backend {
	case backendLocal:
		if cfg.root == "" {
			return &cliError{exitCode: 1, msg: "Invalid root: must not be empty"}
		}
	case backendMinio:
		if cfg.endpoint == "" {
			return &cliError{exitCode: 1, msg: "The minio backend requires -endpoint"}
		}
		if cfg.bucket == "" {
			return &cliError{exitCode: 1, msg: "The minio backend requires -bucket"}
		}
	case backendS3:
		if cfg.bucket == "" {
			return &cliError{exitCode: 1, msg: "The s3 backend requires -bucket"}
		}
	default:
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Unknown backend: %q (want local, minio or s3)", cfg.backend)}
	}
	return nil
}

// applyEnv fills MinIO credentials from the environment when no flag set them.
func applyEnv(cfg cliConfig, getenv func(string) string) cliConfig {
	if cfg.backend != backendMinio {
		return cfg
	}
	if cfg.accessKey == "" {
		cfg.accessKey = getenv("MINIO_ACCESS_KEY")
	}
	if cfg.secretKey == "" {
		cfg.secretKey = getenv("MINIO_SECRET_KEY")
	}
	return cfg
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func newLogger(cfg cliConfig, w io.Writer) *blockio.Logger {
	level, _ := parseLevel(cfg.logLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.jsonLogs {
		return blockio.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return blockio.NewLogger(slog.NewTextHandler(w, opts))
}

func versionString() string {
	return fmt.Sprintf("blockcp %s (commit: %s, built: %s)\n", version, commit, date)
}

func buildBackend(ctx context.Context, cfg cliConfig, deps runDeps) (lowlevel.Backend, error) {
	switch cfg.backend {
	case backendMinio:
		store, err := deps.newMinioStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create MinIO client: %w", err)
		}
		return lowlevel.NewBlobBackend(ctx, store), nil
	case backendS3:
		store, err := deps.newS3Store(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 client: %w", err)
		}
		return lowlevel.NewBlobBackend(ctx, store), nil
	default:
		return lowlevel.NewLocalBackend(cfg.root, nil), nil
	}
}

func run(args []string, deps runDeps) error {
	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}

	if cfg.showVersion {
		deps.versionOut(versionString())
		return nil
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}
	cfg = applyEnv(cfg, deps.getenv)

	logger := newLogger(cfg, deps.logOut)

	ctx, stop := deps.signalContext()
	defer stop()

	backend, err := buildBackend(ctx, cfg, deps)
	if err != nil {
		return err
	}

	// The copy pipeline keeps one read and one write in flight, each holding
	// one block.
	store := lowlevel.New(backend, func(o *lowlevel.Options) {
		o.Logger = logger.Logger
		o.Context = ctx
		o.Controller = resource.NewController(resource.Config{
			MaxWorkers:         cfg.workers,
			MaxInFlightBytes:   2 * int64(cfg.blockSize),
			IOLimitBytesPerSec: cfg.rate,
		})
	})
	defer func() { _ = store.Close() }()

	fsys := blockio.New(store, blockio.WithLogger(logger))

	if !fsys.IsRegularFile(cfg.src) {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Source is not a regular file: %s", cfg.src)}
	}
	if fsys.IsDirectory(cfg.dst) {
		return &cliError{exitCode: 1, msg: fmt.Sprintf("Destination is a directory: %s", cfg.dst)}
	}

	n, err := fsys.CopyFileAsync(ctx, cfg.src, cfg.dst, cfg.blockSize)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	// Blob backends publish the destination when it is closed; a failed
	// upload only surfaces here.
	if err := store.Close(); err != nil {
		return fmt.Errorf("close %s backend: %w", cfg.backend, err)
	}
	if !fsys.IsRegularFile(cfg.dst) {
		return fmt.Errorf("copy: destination %s missing after close", cfg.dst)
	}

	logger.Info("copy completed",
		"src", cfg.src,
		"dst", cfg.dst,
		"bytes", n,
		"block_size", cfg.blockSize,
		"backend", cfg.backend,
	)
	return nil
}
