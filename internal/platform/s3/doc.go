// Package s3 uploads run reports to S3-compatible object storage.
//
// Any endpoint speaking the S3 protocol works (AWS, MinIO, Hetzner Object
// Storage). When no static credentials are given, the default AWS
// credential chain is used.
package s3
