package types

import "strings"

// Visibility is the abstract access level of a file.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibilities.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// CannedACL is a BOS canned access control list name.
type CannedACL string

const (
	ACLPrivate         CannedACL = "private"
	ACLPublicRead      CannedACL = "public-read"
	ACLPublicReadWrite CannedACL = "public-read-write"
)

// EntryType distinguishes files from directory-like prefixes.
type EntryType string

const (
	TypeFile EntryType = "file"
	TypeDir  EntryType = "dir"
)

// Grantee id that matches every requester, including anonymous ones.
const WildcardGrantee = "*"

// Permission names used in ACL grants
const (
	PermissionRead        = "READ"
	PermissionWrite       = "WRITE"
	PermissionFullControl = "FULL_CONTROL"
)

// PathInfo is the directory/filename/extension breakdown of a path.
type PathInfo struct {
	Dirname   string `json:"dirname,omitempty"`
	Basename  string `json:"basename"`
	Extension string `json:"extension,omitempty"`
	Filename  string `json:"filename"`
}

// Metadata is the normalized description of a file or directory entry.
type Metadata struct {
	PathInfo

	Path         string    `json:"path"`
	Type         EntryType `json:"type"`
	Size         int64     `json:"size,omitempty"`
	LastModified int64     `json:"last_modified,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (m Metadata) IsDir() bool {
	return m.Type == TypeDir
}

// ObjectMeta holds object metadata in the header-shaped form the storage
// service returns it. LastModified is an HTTP date.
type ObjectMeta struct {
	ContentLength int64             `json:"content_length"`
	ContentType   string            `json:"content_type"`
	LastModified  string            `json:"last_modified"`
	ETag          string            `json:"etag,omitempty"`
	StorageClass  string            `json:"storage_class,omitempty"`
	UserMeta      map[string]string `json:"user_meta,omitempty"`
}

// ObjectSummary is one row of a listing. LastModified is ISO-8601.
type ObjectSummary struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// ListOptions are the query parameters of a listing request.
type ListOptions struct {
	Prefix    string
	Delimiter string
	Marker    string
	MaxKeys   int
}

// ListResult is a complete listing, all pages concatenated.
type ListResult struct {
	Contents       []ObjectSummary `json:"contents"`
	CommonPrefixes []string        `json:"common_prefixes,omitempty"`
}

// Grant pairs a set of grantees with a set of permissions.
type Grant struct {
	Grantees    []string `json:"grantees"`
	Permissions []string `json:"permissions"`
}

// ACL is an access control list.
type ACL struct {
	Grants []Grant `json:"grants"`
}

// PutOptions are the request options of an upload.
type PutOptions struct {
	ContentType        string
	CacheControl       string
	ContentDisposition string
	Expires            string
	StorageClass       string
	UserMeta           map[string]string

	// Integrity checks verified by the server: base64 MD5, hex SHA-256 and
	// decimal CRC32 of the body.
	ContentMD5    string
	ContentSHA256 string
	ContentCRC32  string

	// Headers are raw request headers. Well-known names are folded into the
	// typed fields above and x-bce-meta-* into UserMeta.
	Headers map[string]string
}

// Resolved returns a copy of o with Headers folded into the typed fields.
// Typed fields already set win over headers. A nil receiver yields zero options.
func (o *PutOptions) Resolved() PutOptions {
	if o == nil {
		return PutOptions{}
	}

	out := *o
	out.Headers = nil
	if len(o.UserMeta) > 0 {
		out.UserMeta = make(map[string]string, len(o.UserMeta))
		for k, v := range o.UserMeta {
			out.UserMeta[k] = v
		}
	}

	setIfEmpty := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	for name, value := range o.Headers {
		lower := strings.ToLower(name)
		switch {
		case lower == "content-type":
			setIfEmpty(&out.ContentType, value)
		case lower == "cache-control":
			setIfEmpty(&out.CacheControl, value)
		case lower == "content-disposition":
			setIfEmpty(&out.ContentDisposition, value)
		case lower == "expires":
			setIfEmpty(&out.Expires, value)
		case lower == "content-md5":
			setIfEmpty(&out.ContentMD5, value)
		case lower == "x-bce-content-sha256":
			setIfEmpty(&out.ContentSHA256, value)
		case lower == "x-bce-content-crc32":
			setIfEmpty(&out.ContentCRC32, value)
		case lower == "x-bce-storage-class" || lower == "x-amz-storage-class":
			setIfEmpty(&out.StorageClass, value)
		case strings.HasPrefix(lower, UserMetaPrefix):
			key := strings.TrimPrefix(lower, UserMetaPrefix)
			if out.UserMeta == nil {
				out.UserMeta = make(map[string]string)
			}
			if _, exists := out.UserMeta[key]; !exists {
				out.UserMeta[key] = value
			}
		default:
			if out.Headers == nil {
				out.Headers = make(map[string]string)
			}
			out.Headers[name] = value
		}
	}

	return out
}

// UserMetaPrefix is the header prefix of user-defined object metadata.
const UserMetaPrefix = "x-bce-meta-"
