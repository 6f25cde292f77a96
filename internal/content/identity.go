package content

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// setNamespace scopes deterministic set identifiers.
var setNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("contentprep:content-set"))

// SetID derives a stable identifier from the folder and candidate key so
// detecting the same group twice addresses the same set.
func SetID(folder, key string) string {
	return uuid.NewSHA1(setNamespace, []byte(folder+"\x00"+key)).String()
}

// Fingerprint hashes a membership snapshot. Order of paths does not matter.
func Fingerprint(paths []string) string {
	sorted := append([]string(nil), paths...)
	slices.Sort(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:16])
}
