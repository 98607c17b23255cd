// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/crud"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/transfer"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

// RegisterAsset creates the asset, uploading its local file first when one
// is given. An asset that already exists is reported with Created false.
func (s *ProviderService) RegisterAsset(ctx context.Context, req AssetRequest) (*AssetResult, error) {
	if req.ID == "" {
		return nil, errors.New("asset id not specified")
	}
	if (req.HTTP == nil) == (req.S3 == nil) {
		return nil, errors.New("exactly one of http or s3 source is required")
	}

	var (
		address map[string]any
		source  string
	)
	switch {
	case req.HTTP != nil:
		if req.HTTP.BaseURL == "" {
			return nil, errors.New("asset url not specified")
		}
		address = map[string]any{
			"@type":            "DataAddress",
			"type":             dataspace.DataAddressHTTP,
			"baseUrl":          req.HTTP.BaseURL,
			"proxyPath":        strconv.FormatBool(req.HTTP.ProxyPath),
			"proxyQueryParams": strconv.FormatBool(req.HTTP.ProxyQuery),
			"proxyMethod":      "false",
			"method":           "GET",
		}
		source = req.HTTP.BaseURL

	default:
		src := *req.S3
		if src.Bucket == "" {
			src.Bucket = s.s3.Bucket
		}
		if src.LocalFile != "" {
			uri, err := s.transfer.Stage(ctx, transfer.StageRequest{LocalFile: src.LocalFile, Bucket: src.Bucket, Key: src.Key})
			if err != nil {
				return nil, fmt.Errorf("failed to stage %s: %w", src.LocalFile, err)
			}
			pp, err := utils.ParsePath(uri)
			if err != nil {
				return nil, err
			}
			src.Bucket, src.Key = pp.Host, pp.Path
		}
		if src.Bucket == "" || src.Key == "" {
			return nil, errors.New("s3 bucket and key are required")
		}
		address = map[string]any{
			"@type":            "DataAddress",
			"type":             dataspace.DataAddressS3,
			"region":           s.s3.Region,
			"endpointOverride": s.s3.EndpointURL,
			"bucketName":       src.Bucket,
			"keyName":          src.Key,
			"accessKeyId":      s.s3.AccessKey,
			"secretAccessKey":  s.s3.SecretKey,
		}
		source = "s3://" + src.Bucket + "/" + src.Key
	}

	body := map[string]any{
		"@context":    s.assetContext(),
		"@id":         req.ID,
		"@type":       "Asset",
		"properties":  utils.MergeMaps(s.assetProperties(req), req.Properties, nil),
		"dataAddress": address,
	}
	created, err := s.create(ctx, crud.Assets, body)
	if err != nil {
		return nil, err
	}
	log.Infow("asset registered", "id", req.ID, "created", created, "source", source)
	return &AssetResult{ID: req.ID, Created: created, Source: source}, nil
}

func (s *ProviderService) assetContext() map[string]any {
	ctx := dataspace.EDCContext(s.mgmt.EDCNamespace)
	ctx["edc"] = ctx["@vocab"]
	ctx["tx"] = dataspace.NamespaceTX
	ctx["dct"] = dataspace.NamespaceDCT
	return ctx
}

func (s *ProviderService) assetProperties(req AssetRequest) map[string]any {
	assetType := req.Type
	if assetType == "" {
		assetType = AssetTypeData
	}
	props := map[string]any{
		"type": assetType,
	}
	if req.Description != "" {
		props["description"] = req.Description
	}
	if req.ContentType != "" {
		props["contenttype"] = req.ContentType
	}
	if ft := transfer.CleanFileType(req.FileType); ft != "" {
		props["tx:fileType"] = ft
	}
	if bpn := s.mgmt.BPN; bpn != "" {
		props["originator"] = bpn
	}
	return props
}
