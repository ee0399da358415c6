package stream

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config names the connection parameters a caller may supply for
// "s3://" sources. A zero-value S3Config falls back to the default AWS
// credential chain (environment, shared config, instance role) and region
// us-east-1; the bucket's own region is not looked up.
type S3Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

var activeS3Config S3Config

// SetS3Config installs the connection parameters readLinesS3 uses for
// every subsequent "s3://" source. Passing a zero-value S3Config reverts
// to the default AWS credential chain.
func SetS3Config(cfg S3Config) {
	activeS3Config = cfg
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	var optFns []func(*awsconfig.LoadOptions) error
	optFns = append(optFns, awsconfig.WithRegion(region))
	if cfg.AccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("logpattern: load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// s3URI splits an "s3://bucket/key" source path into its bucket and key.
func s3URI(path string) (bucket, key string, ok bool) {
	const prefix = "s3://"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return rest, "", true
	}
	return rest[:idx], rest[idx+1:], true
}

// readLinesS3 reads an "s3://bucket/key" object and splits it into lines,
// applying the same lossy UTF-8 repair as the local readers.
func readLinesS3(ctx context.Context, path string) ([]string, error) {
	bucket, key, ok := s3URI(path)
	if !ok {
		return nil, fmt.Errorf("logpattern: not an s3 path: %s", path)
	}

	client, err := newS3Client(ctx, activeS3Config)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("logpattern: get s3 object %s: %w", path, err)
	}
	defer out.Body.Close()

	var lines []string
	scanner := bufio.NewScanner(out.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, toValidUTF8(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logpattern: read s3 object %s: %w", path, err)
	}
	return lines, nil
}

// ReadSource dispatches to the S3 reader for "s3://..." paths and to
// ReadLines (mmap-or-buffered) otherwise, giving learn/parse/drift a single
// entry point regardless of where the log lives.
func ReadSource(ctx context.Context, path string, useMmap bool) ([]string, error) {
	if _, _, ok := s3URI(path); ok {
		return readLinesS3(ctx, path)
	}
	return ReadLines(path, useMmap)
}
