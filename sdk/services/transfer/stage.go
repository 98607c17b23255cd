// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

// Stage uploads a local file to s3://{bucket}/{key} and returns the URI.
// The bucket defaults to the configured one and the key to the file name.
func (s *TransferService) Stage(ctx context.Context, req StageRequest) (string, error) {
	if req.LocalFile == "" {
		return "", errors.New("missing required input file")
	}
	if s.s3 == nil {
		return "", errors.New("staging requires S3 credentials (S3_ACCESS_KEY, S3_SECRET_KEY)")
	}
	st, err := os.Stat(req.LocalFile)
	if err != nil {
		return "", fmt.Errorf("cannot access input: %w", err)
	}
	if st.IsDir() {
		return "", fmt.Errorf("%s is a directory", req.LocalFile)
	}

	bucket := req.Bucket
	if bucket == "" {
		bucket = s.s3conf.Bucket
	}
	if bucket == "" {
		return "", errors.New("bucket not specified")
	}
	key := req.Key
	if key == "" {
		key = st.Name()
	}

	if err := utils.UploadLocalFile(ctx, s.s3, bucket, key, req.LocalFile, s.conf.Verbose); err != nil {
		return "", err
	}
	return "s3://" + bucket + "/" + key, nil
}
