package model

// MetaKey names a conventional metadata entry. The values are persisted in the
// ledger and drive account resolution and deduplication, so they must not change.
type MetaKey string

const (
	// MetaLastFour tags a liability account with the last four card digits it tracks.
	MetaLastFour MetaKey = "lastFour"
	// MetaImporter marks an account as managed by a given importer.
	MetaImporter MetaKey = "importer"
	// MetaActivityID holds the issuer activity reference a transaction was built from.
	MetaActivityID MetaKey = "activityId"
)

// Metadata is a free-form key/value mapping attached to accounts and transactions.
type Metadata map[MetaKey]string

// Get returns the value stored under key and whether it was present.
func (m Metadata) Get(key MetaKey) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Set stores value under key, allocating the map if needed.
func (m *Metadata) Set(key MetaKey, value string) {
	if *m == nil {
		*m = make(Metadata)
	}
	(*m)[key] = value
}
