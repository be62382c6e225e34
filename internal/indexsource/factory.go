// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package indexsource

import (
	"fmt"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/indexsource/gcs"
	"github.com/antgroup/fzfserve/internal/indexsource/local"
	"github.com/antgroup/fzfserve/internal/indexsource/s3"
)

// New builds the Source named by sc.Kind.
func New(sc config.SourceConfig) (Source, error) {
	switch sc.Kind {
	case "", "local":
		if sc.Path == "" {
			return nil, fmt.Errorf("indexsource: local source requires path")
		}
		return local.New(sc.Path), nil
	case "s3":
		if sc.Bucket == "" || sc.Key == "" {
			return nil, fmt.Errorf("indexsource: s3 source requires bucket and key")
		}
		return s3.New(sc.Bucket, sc.Key, sc.Region), nil
	case "gcs":
		if sc.Bucket == "" || sc.Key == "" {
			return nil, fmt.Errorf("indexsource: gcs source requires bucket and key")
		}
		return gcs.New(sc.Bucket, sc.Key), nil
	default:
		return nil, fmt.Errorf("indexsource: unknown source kind %q", sc.Kind)
	}
}
