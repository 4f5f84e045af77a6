package memory

import (
	"encoding/json"
	"fmt"
)

// Bucket names used by durable backends to persist one snapshot section per row.
const (
	BucketHomeModules = "home_modules"
	BucketWorkbench   = "workbench"
	BucketProjects    = "projects"
	BucketOCMSetup    = "ocm_setup"
	BucketMeta        = "meta"
)

// Buckets lists every persisted bucket in write order.
var Buckets = []string{BucketHomeModules, BucketWorkbench, BucketProjects, BucketOCMSetup, BucketMeta}

type bucketMeta struct {
	Version uint64 `json:"version"`
}

// EncodeBuckets splits a snapshot into JSON payloads keyed by bucket name.
func EncodeBuckets(snapshot Snapshot) (map[string][]byte, error) {
	sections := map[string]any{
		BucketHomeModules: snapshot.HomeModules,
		BucketWorkbench:   snapshot.Workbench,
		BucketProjects:    snapshot.Projects,
		BucketOCMSetup:    snapshot.OCMSetup,
		BucketMeta:        bucketMeta{Version: snapshot.Version},
	}
	out := make(map[string][]byte, len(sections))
	for _, bucket := range Buckets {
		data, err := json.Marshal(sections[bucket])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBuckets rebuilds a snapshot from bucket payloads. Unknown buckets and
// empty payloads are ignored; ok reports whether any known bucket was present.
func DecodeBuckets(payloads map[string][]byte) (snapshot Snapshot, ok bool, err error) {
	var meta bucketMeta
	targets := map[string]any{
		BucketHomeModules: &snapshot.HomeModules,
		BucketWorkbench:   &snapshot.Workbench,
		BucketProjects:    &snapshot.Projects,
		BucketOCMSetup:    &snapshot.OCMSetup,
		BucketMeta:        &meta,
	}
	for bucket, payload := range payloads {
		target, known := targets[bucket]
		if !known || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return Snapshot{}, false, fmt.Errorf("decode %s: %w", bucket, err)
		}
		ok = true
	}
	snapshot.Version = meta.Version
	return snapshot, ok, nil
}
