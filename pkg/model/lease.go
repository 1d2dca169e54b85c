package model

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// neverExpires is how a zero expiry renders on the wire.
const neverExpires = "never"

// Lease is a time-bounded exclusive claim by one cluster node on one
// dataset. A zero Expires means the lease never expires.
type Lease struct {
	DatasetID uuid.UUID `json:"dataset_id" yaml:"dataset_id"`
	NodeID    uuid.UUID `json:"node_id" yaml:"node_id"`
	Expires   time.Time `json:"expires" yaml:"expires"`
}

// Expired reports whether the lease has lapsed at the given instant.
// Leases with a zero expiry never lapse.
func (l Lease) Expired(now time.Time) bool {
	if l.Expires.IsZero() {
		return false
	}
	return now.After(l.Expires)
}

type leaseJSON struct {
	DatasetID string `json:"dataset_id"`
	NodeID    string `json:"node_id"`
	Expires   string `json:"expires"`
}

// MarshalJSON renders the expiry as RFC3339, or "never" for leases
// without one.
func (l Lease) MarshalJSON() ([]byte, error) {
	out := leaseJSON{
		DatasetID: l.DatasetID.String(),
		NodeID:    l.NodeID.String(),
		Expires:   neverExpires,
	}
	if !l.Expires.IsZero() {
		out.Expires = l.Expires.Format(time.RFC3339Nano)
	}
	return jsoniter.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (l *Lease) UnmarshalJSON(data []byte) error {
	var in leaseJSON
	if err := jsoniter.Unmarshal(data, &in); err != nil {
		return err
	}
	datasetID, err := uuid.Parse(in.DatasetID)
	if err != nil {
		return err
	}
	nodeID, err := uuid.Parse(in.NodeID)
	if err != nil {
		return err
	}
	var expires time.Time
	if in.Expires != neverExpires && in.Expires != "" {
		expires, err = time.Parse(time.RFC3339Nano, in.Expires)
		if err != nil {
			return err
		}
	}
	*l = Lease{DatasetID: datasetID, NodeID: nodeID, Expires: expires}
	return nil
}
