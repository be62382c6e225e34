// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package gcs fetches index blobs from a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// Source fetches one object from a GCS bucket.
type Source struct {
	Bucket string
	Key    string

	client *storage.Client
}

// New builds a Source. The underlying client is constructed lazily on
// first Fetch, using application-default credentials.
func New(bucket, key string) *Source {
	return &Source{Bucket: bucket, Key: key}
}

func (s *Source) ensureClient(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	c, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("gcs source: new client: %w", err)
	}
	s.client = c
	return nil
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}
	r, err := s.client.Bucket(s.Bucket).Object(s.Key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs source: open gs://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer r.Close() // nolint
	return io.ReadAll(r)
}
