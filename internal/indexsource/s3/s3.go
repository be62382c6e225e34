// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package s3 fetches index blobs from an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source fetches one object from an S3 bucket. AccessKeyID/SecretAccessKey
// are optional — leave both empty to fall back to the standard AWS
// credential chain (environment, shared config, instance role).
type Source struct {
	Bucket          string
	Key             string
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	client *s3.Client
}

// New builds a Source. The underlying client is constructed lazily on
// first Fetch.
func New(bucket, key, region string) *Source {
	return &Source{Bucket: bucket, Key: key, Region: region}
}

func (s *Source) ensureClient(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("s3 source: load aws config: %w", err)
	}
	s.client = s3.NewFromConfig(cfg)
	return nil
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 source: get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close() // nolint
	return io.ReadAll(out.Body)
}
