package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// S3Options describe how to reach an S3-compatible endpoint.
type S3Options struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	DisableSSL      bool
}

const defaultRegion = "us-east-1"

// ParseConnectionString reads a "Key=Value;Key=Value" connection string.
// Recognised keys (case insensitive): Endpoint, Region, AccessKeyId,
// SecretAccessKey, ForcePathStyle, DisableSSL. A custom endpoint implies
// path-style addressing unless ForcePathStyle says otherwise.
func ParseConnectionString(s string) (S3Options, error) {
	opts := S3Options{Region: defaultRegion}
	pathStyleSet := false

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return S3Options{}, fmt.Errorf("storage connection string: malformed segment %q", key)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "endpoint":
			opts.Endpoint = strings.TrimRight(value, "/")
		case "region":
			if value != "" {
				opts.Region = value
			}
		case "accesskeyid":
			opts.AccessKeyID = value
		case "secretaccesskey":
			opts.SecretAccessKey = value
		case "forcepathstyle":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return S3Options{}, fmt.Errorf("storage connection string: ForcePathStyle: %w", err)
			}
			opts.ForcePathStyle = b
			pathStyleSet = true
		case "disablessl":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return S3Options{}, fmt.Errorf("storage connection string: DisableSSL: %w", err)
			}
			opts.DisableSSL = b
		default:
			return S3Options{}, fmt.Errorf("storage connection string: unknown key %q", key)
		}
	}

	if opts.Endpoint != "" && !pathStyleSet {
		opts.ForcePathStyle = true
	}
	return opts, nil
}
