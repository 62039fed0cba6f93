package kernel

// Versioned carries the optimistic-lock version of an aggregate. Aggregates embed it;
// repositories compare the loaded version on update and record the new one afterwards.
type Versioned struct {
	version int64
}

// RestoreVersioned is used by constructors that rebuild an aggregate from storage.
func RestoreVersioned(version int64) Versioned {
	return Versioned{version: version}
}

// Version returns the version the aggregate was loaded (or last saved) with.
func (v *Versioned) Version() int64 {
	return v.version
}

// MarkPersisted records the version written by a successful save.
func (v *Versioned) MarkPersisted(version int64) {
	v.version = version
}
