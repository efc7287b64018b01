/*
Package s3 implements types.Client against the S3-compatible endpoint of Baidu
Object Storage using aws-sdk-go-v2.

BOS serves an S3 dialect at https://s3.<region>.bcebos.com. This client is an
alternative to the native BOS SDK client for environments that already carry
AWS tooling:

	client, err := s3.NewClient(ctx, &s3.Config{
		Region:          "bj",
		Bucket:          "my-bucket",
		AccessKeyID:     ak,
		SecretAccessKey: sk,
	}, logger)

Listings are paged with ListObjectsV2 and concatenated. Object timestamps are
rendered in the header shapes the BOS SDK returns, an HTTP date for object
metadata and an ISO-8601 instant for list entries, so the adapter normalizes
both drivers the same way.

ACL grants for the AllUsers group are reported with the wildcard grantee "*".
*/
package s3
