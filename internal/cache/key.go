package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NoContext replaces the context id in keys for queries without a conversation.
const NoContext = "no-context"

// maxEntitiesLen bounds the canonical entity segment before it is hashed.
const maxEntitiesLen = 200

// QueryKey derives query:{intent}:{canonical-entities}:{contextId}.
func QueryKey(intent string, entities map[string]interface{}, contextID string) string {
	if contextID == "" {
		contextID = NoContext
	}
	return fmt.Sprintf("query:%s:%s:%s", intent, CanonicalEntities(entities), contextID)
}

// CanonicalEntities renders entities as JSON with sorted keys and nil values
// dropped at every level. Long renderings are replaced by a sha256 digest.
func CanonicalEntities(entities map[string]interface{}) string {
	raw, err := json.Marshal(prune(entities))
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", entities))
	}
	s := string(raw)
	if len(s) > maxEntitiesLen {
		sum := sha256.Sum256(raw)
		return "sha256-" + hex.EncodeToString(sum[:])
	}
	return s
}

func prune(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = prune(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, val := range t {
			out = append(out, prune(val))
		}
		return out
	default:
		return v
	}
}
