package keyshape

import "strconv"

// joinPath extends a parent path with a map key: "a" + "b" -> "a.b".
func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// indexPath extends a parent path with a sequence index: "a" + 2 -> "a[2]".
func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
