/*
Package types defines the data structures shared by the bosfs packages and the
contract between the filesystem adapter and its storage client.

# Client

Client mirrors the calls the adapter makes against a bucket:

	PutObject, GetObject, GetObjectMeta, CopyObject, DeleteObject,
	ListObjects, GetObjectACL, PutObjectACL, GetBucketACL

Implementations live under internal/storage: the native BOS SDK client, the
S3-compatible client, and an in-memory client used by tests.

# Records

Client methods return header-shaped records (ObjectMeta, ObjectSummary, ACL)
exactly as the service reports them. The adapter turns them into Metadata,
which carries the path, entry type, size, epoch timestamp, mime type and a
PathInfo breakdown of the path.
*/
package types
