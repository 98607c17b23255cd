// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provide

var opts = &options{}

type options struct {
	AssetID     string
	AssetURL    string
	Description string
	Type        string
	FileType    string
	ContentType string
	File        string
	Bucket      string
	Key         string
	ConsumerBPN string
	Properties  map[string]string
	Confirm     bool
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.AssetID, "asset-id", "", "Asset id. Defaults to ASSET_ID.")
	flags.StringVar(&opts.AssetURL, "asset-url", "",
		"HTTP endpoint serving the asset. Defaults to ASSET_URL. Mutually exclusive with --file/--key.")
	flags.StringVar(&opts.Description, "description", "", "Asset description. Defaults to ASSET_DESCRIPTION.")
	flags.StringVar(&opts.Type, "type", "data", "Asset type: data, model or service.")
	flags.StringVar(&opts.FileType, "file-type", "", "File type hint offered to consumers, e.g. csv.")
	flags.StringVar(&opts.ContentType, "content-type", "", "Content type of the asset.")
	flags.StringVar(&opts.File, "file", "", "Local file uploaded to the bucket before registration.")
	flags.StringVar(&opts.Bucket, "bucket", "", "Bucket holding the asset. Defaults to S3_BUCKET.")
	flags.StringVar(&opts.Key, "key", "", "Object key of the asset. Defaults to the file name.")
	flags.StringVar(&opts.ConsumerBPN, "consumer-bpn", "",
		"Business partner allowed to negotiate the asset. Defaults to CONSUMER_BPN.")
	flags.StringToStringVar(&opts.Properties, "property", nil,
		"Extra asset property key=value; may be repeated.")
	flags.BoolVar(&opts.Confirm, "confirm", false, "Ask for confirmation before publishing.")
}
