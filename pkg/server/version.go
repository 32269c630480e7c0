package server

import (
	"net/http"
	"slices"
	"strings"
)

const (
	// DefaultAPIVersion is served when the client does not ask for one.
	DefaultAPIVersion = "v1"

	vendorMediaTypePrefix = "application/vnd.nvidia.ssminv."
	vendorMediaTypeSuffix = "+json"
)

var supportedAPIVersions = []string{"v1"}

// negotiateAPIVersion reads the version from a vendor media type in Accept,
// e.g. application/vnd.nvidia.ssminv.v1+json. Unsupported or missing versions
// fall back to DefaultAPIVersion.
func negotiateAPIVersion(r *http.Request) string {
	for _, accept := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(accept), ";")
		if !strings.HasPrefix(mediaType, vendorMediaTypePrefix) || !strings.HasSuffix(mediaType, vendorMediaTypeSuffix) {
			continue
		}
		v := strings.TrimSuffix(strings.TrimPrefix(mediaType, vendorMediaTypePrefix), vendorMediaTypeSuffix)
		if isValidAPIVersion(v) {
			return v
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(v string) bool {
	return slices.Contains(supportedAPIVersions, v)
}
