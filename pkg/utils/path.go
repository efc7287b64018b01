package utils

import (
	"strings"

	"github.com/objectfs/bosfs/pkg/types"
)

// PathInfo breaks path into its directory, base name, extension and file name.
// A trailing slash is ignored so directory markers resolve to the directory
// itself. Dirname is empty for entries at the bucket root.
//
// Example:
//
//	PathInfo("docs/report.final.pdf")
//	// {Dirname: "docs", Basename: "report.final.pdf", Extension: "pdf", Filename: "report.final"}
func PathInfo(path string) types.PathInfo {
	path = strings.TrimRight(path, "/")

	var info types.PathInfo
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		info.Dirname = path[:idx]
		info.Basename = path[idx+1:]
	} else {
		info.Basename = path
	}

	if idx := strings.LastIndex(info.Basename, "."); idx >= 0 {
		info.Extension = info.Basename[idx+1:]
		info.Filename = info.Basename[:idx]
	} else {
		info.Filename = info.Basename
	}

	return info
}

// DirectoryMarker returns the key of the zero-length object that stands in
// for directory path.
func DirectoryMarker(path string) string {
	return strings.TrimRight(path, "/") + "/"
}

// IsDirectoryKey reports whether key names a directory marker.
func IsDirectoryKey(key string) bool {
	return strings.HasSuffix(key, "/")
}
