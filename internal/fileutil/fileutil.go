// Package fileutil holds file conventions shared by the commands.
package fileutil

import "os"

// OwnerReadWrite is the permission mode of written OpenAPI documents, which
// may describe internal APIs (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600
