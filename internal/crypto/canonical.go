// the platform signs the compact serialization of the webhook JSON body in
// the sender's own key order. proxies and client middleware may reformat the
// body in transit, so whitespace is stripped before hashing - but keys are
// never re-ordered, since re-ordering would change the signed bytes
package crypto

import (
	"bytes"
	"encoding/json"
)

// CanonicalizeJSON strips insignificant whitespace from jsonData without
// changing key order, reproducing the compact serialization the platform
// signs. Invalid JSON is rejected.
func CanonicalizeJSON(jsonData []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, jsonData); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
