package store

import (
	"errors"

	"github.com/pkg/xattr"
)

// Attribute names persisted per classified file.
const (
	attrClassification  = "user.docsentry.classification"
	attrCreatedAt       = "user.docsentry.created_at"
	attrIntegrity       = "user.docsentry.integrity"
	attrWatermark       = "user.docsentry.watermark"
	attrWatermarkHash   = "user.docsentry.watermark_hash"
	attrPolicyID        = "user.docsentry.policy_id"
	attrProtectionLevel = "user.docsentry.protection_level"
)

// errAttrNotFound is the backend-neutral "attribute absent" signal.
var errAttrNotFound = errors.New("attribute not found")

// Backend is a durable per-file key/value store. The default implementation
// uses extended attributes; hosts on filesystems without xattr support can
// supply an equivalent.
type Backend interface {
	// Get returns the attribute value, or errAttrNotFound (via errors.Is)
	// when the file has no such attribute.
	Get(path, name string) (string, error)
	Set(path, name, value string) error
}

// XattrBackend stores attributes as filesystem extended attributes.
type XattrBackend struct{}

func (XattrBackend) Get(path, name string) (string, error) {
	data, err := xattr.Get(path, name)
	if err != nil {
		if isNoAttr(err) {
			return "", errAttrNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (XattrBackend) Set(path, name, value string) error {
	return xattr.Set(path, name, []byte(value))
}

// isNoAttr maps platform-specific "no such attribute" errors to the
// backend-neutral signal.
func isNoAttr(err error) bool {
	var xerr *xattr.Error
	if errors.As(err, &xerr) {
		return xerr.Err == xattr.ENOATTR
	}
	return false
}
