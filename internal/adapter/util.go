package adapter

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/objectfs/bosfs/pkg/types"
	"github.com/objectfs/bosfs/pkg/utils"
)

const delimiter = "/"

// buildListOptions derives the listing query for directory. A non-recursive
// listing groups deeper keys under the "/" delimiter.
func buildListOptions(directory string, recursive bool) types.ListOptions {
	var opts types.ListOptions
	if !recursive {
		opts.Delimiter = delimiter
	}
	if dir := strings.Trim(directory, delimiter); dir != "" {
		opts.Prefix = dir + delimiter
	}
	return opts
}

// normalizeMeta turns object headers into a file entry for path.
func normalizeMeta(meta *types.ObjectMeta, path string) (*types.Metadata, error) {
	md := &types.Metadata{
		PathInfo: utils.PathInfo(path),
		Path:     path,
		Type:     types.TypeFile,
		Size:     meta.ContentLength,
		MimeType: meta.ContentType,
	}

	if meta.LastModified != "" {
		t, err := http.ParseTime(meta.LastModified)
		if err != nil {
			return nil, fmt.Errorf("invalid Last-Modified %q: %w", meta.LastModified, err)
		}
		md.LastModified = t.Unix()
	}
	return md, nil
}

// normalizeEntry turns a listing row into a file or dir entry. Directory
// markers lose their trailing slash.
func normalizeEntry(summary types.ObjectSummary) types.Metadata {
	md := types.Metadata{
		PathInfo: utils.PathInfo(summary.Key),
	}

	if utils.IsDirectoryKey(summary.Key) {
		md.Type = types.TypeDir
		md.Path = strings.TrimRight(summary.Key, delimiter)
	} else {
		md.Type = types.TypeFile
		md.Path = summary.Key
		md.Size = summary.Size
	}

	if t, err := time.Parse(time.RFC3339, summary.LastModified); err == nil {
		md.LastModified = t.Unix()
	}
	return md
}

// normalizePrefix turns a common prefix into a dir entry.
func normalizePrefix(prefix string) types.Metadata {
	return types.Metadata{
		PathInfo: utils.PathInfo(prefix),
		Path:     strings.TrimRight(prefix, delimiter),
		Type:     types.TypeDir,
	}
}

// extractPermissions returns the permissions of the first grant naming the
// wildcard grantee.
func extractPermissions(acl *types.ACL) []string {
	if acl == nil {
		return nil
	}
	for _, grant := range acl.Grants {
		for _, grantee := range grant.Grantees {
			if grantee == types.WildcardGrantee {
				return grant.Permissions
			}
		}
	}
	return nil
}

// visibilityOf reports public when the wildcard grantee may read. FULL_CONTROL
// implies READ on BOS, so it also counts as public.
func visibilityOf(permissions []string) types.Visibility {
	for _, p := range permissions {
		if p == types.PermissionRead || p == types.PermissionFullControl {
			return types.VisibilityPublic
		}
	}
	return types.VisibilityPrivate
}

func cannedACL(v types.Visibility) (types.CannedACL, bool) {
	switch v {
	case types.VisibilityPublic:
		return types.ACLPublicRead, true
	case types.VisibilityPrivate:
		return types.ACLPrivate, true
	default:
		return "", false
	}
}

// mergePutOptions layers the per-call options over the defaults. Both are
// resolved first, so a per-call header beats a default typed field.
func mergePutOptions(defaults types.PutOptions, opts *WriteOptions) types.PutOptions {
	out := defaults.Resolved()
	if opts == nil {
		return out
	}

	call := opts.PutOptions.Resolved()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&out.ContentType, call.ContentType)
	override(&out.CacheControl, call.CacheControl)
	override(&out.ContentDisposition, call.ContentDisposition)
	override(&out.Expires, call.Expires)
	override(&out.StorageClass, call.StorageClass)
	out.Headers = mergeMaps(out.Headers, call.Headers)
	out.UserMeta = mergeMaps(out.UserMeta, call.UserMeta)
	return out
}

func mergeMaps(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
