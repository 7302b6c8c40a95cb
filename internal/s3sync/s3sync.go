// Package s3sync pulls compiled manifests from object storage into the local
// public output directory. Deploys that build assets once and ship them to a
// bucket use it so app servers can resolve names without running a compiler.
package s3sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/packs/internal/config"
	"github.com/vango-dev/packs/internal/errors"
)

// ObjectAPI is the subset of the S3 client the syncer uses.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Syncer downloads manifest files from a bucket prefix.
type Syncer struct {
	client    ObjectAPI
	bucket    string
	prefix    string
	outputDir string
	logger    *slog.Logger
}

// New creates a Syncer that writes into outputDir.
//
// Parameters:
//   - client: S3 client (or any ObjectAPI)
//   - bucket: bucket name
//   - prefix: key prefix manifests live under (e.g., "packs/")
//   - outputDir: local directory manifests are written to
func New(client ObjectAPI, bucket, prefix, outputDir string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Syncer{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		outputDir: outputDir,
		logger:    logger.With("component", "s3sync"),
	}
}

// NewFromConfig builds an S3 client from the s3 section of packs.json.
// Credentials come from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY when set;
// otherwise requests are anonymous.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Syncer, error) {
	if cfg.S3.Bucket == "" {
		return nil, errors.New("E101").WithDetail("s3.bucket is not set")
	}

	region := cfg.S3.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.S3.UsePathStyle,
		Credentials:  credentialsFromEnv(),
	}
	if cfg.S3.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3.Endpoint)
	}

	prefix := cfg.S3.Prefix
	if prefix == "" {
		prefix = cfg.PublicOutput
	}
	return New(s3.New(opts), cfg.S3.Bucket, prefix, cfg.PublicOutputPath(), logger), nil
}

func credentialsFromEnv() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	}))
}

// Sync downloads every manifest directly under the prefix and returns the
// local paths written. Each file is replaced atomically so concurrent
// readers never observe a partial manifest.
func (s *Syncer) Sync(ctx context.Context) ([]string, error) {
	keys, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return nil, errors.New("E152").Wrap(err)
	}

	written := make([]string, 0, len(keys))
	for _, key := range keys {
		dest := filepath.Join(s.outputDir, path.Base(key))
		if err := s.download(ctx, key, dest); err != nil {
			return written, err
		}
		s.logger.Info("synced manifest", "key", key, "path", dest)
		written = append(written, dest)
	}
	return written, nil
}

func (s *Syncer) list(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E150").
				WithDetail(fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)).
				Wrap(err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if IsManifestKey(strings.TrimPrefix(key, s.prefix)) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func (s *Syncer) download(ctx context.Context, key, dest string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.New("E151").WithDetail(key).Wrap(err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".manifest-*")
	if err != nil {
		return errors.New("E152").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		return errors.New("E151").WithDetail(key).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("E152").Wrap(err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.New("E152").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errors.New("E152").Wrap(err)
	}
	return nil
}

// IsManifestKey reports whether a key relative to the prefix names a
// manifest file: "manifest.json" or "manifest+<variants>.json".
func IsManifestKey(rel string) bool {
	if strings.Contains(rel, "/") || !strings.HasSuffix(rel, ".json") {
		return false
	}
	return rel == "manifest.json" || strings.HasPrefix(rel, "manifest+")
}
