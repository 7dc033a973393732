package resolve

import "strings"

// ComputeImageName derives the repository-qualified image name (without the
// tag suffix) from the configured repository prefix:
//
//   - empty prefix: the image name is unchanged.
//   - registry-with-project prefix ("host/project", where host contains a
//     dot or a port): the image keeps exactly one such prefix. An image
//     already under the target prefix passes through; an image under another
//     registry prefix has it substituted; a bare image gets the prefix
//     prepended.
//   - any other prefix: prepended to the full original name with '/', '.',
//     ':' and '@' replaced by underscores so the result stays one path
//     segment.
func ComputeImageName(prefix, image string) string {
	if prefix == "" {
		return image
	}

	if isRegistryPath(prefix) {
		if image == prefix || strings.HasPrefix(image, prefix+"/") {
			return image
		}
		segments := strings.Split(image, "/")
		if len(segments) > 1 && strings.ContainsAny(segments[0], ".:") {
			// Drop the existing registry host, and its project segment
			// when one is present.
			rest := segments[1:]
			if len(rest) > 1 {
				rest = rest[1:]
			}
			return prefix + "/" + strings.Join(rest, "/")
		}
		return prefix + "/" + image
	}

	return prefix + "/" + flattenImageName(image)
}

// flattenImageName collapses an image reference into a single path segment.
func flattenImageName(image string) string {
	return strings.NewReplacer("/", "_", ".", "_", ":", "_", "@", "_").Replace(image)
}

// isRegistryPath reports whether the prefix names a container registry host
// followed by exactly one project segment.
func isRegistryPath(prefix string) bool {
	host, project, ok := strings.Cut(prefix, "/")
	if !ok || project == "" || strings.Contains(project, "/") {
		return false
	}
	return strings.ContainsAny(host, ".:")
}
