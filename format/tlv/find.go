package tlv

// CriticalPolicy determines how the scan-ahead locator treats records of unexpected critical types.
type CriticalPolicy int

const (
	// CriticalReject fails with a TypeMismatchError when an unexpected critical record is encountered.
	CriticalReject CriticalPolicy = iota
	// CriticalIgnore skips unexpected records regardless of their criticality.
	CriticalIgnore
)

func (p CriticalPolicy) String() string {
	switch p {
	case CriticalReject:
		return "reject"
	case CriticalIgnore:
		return "ignore"
	}
	return "unknown"
}

// FindType advances the cursor to the next record of type typ, skipping unexpected non-critical records and
// rejecting unexpected critical ones. On success the cursor points at the header of the found record, which is left
// unconsumed.
func FindType(cur *Cursor, typ uint64) error {
	return FindTypePolicy(cur, typ, CriticalReject)
}

// FindTypeStrict is FindType with an explicit flag: unexpected critical records are rejected only if errorOnCritical
// is set, and skipped otherwise.
func FindTypeStrict(cur *Cursor, typ uint64, errorOnCritical bool) error {
	policy := CriticalIgnore
	if errorOnCritical {
		policy = CriticalReject
	}
	return FindTypePolicy(cur, typ, policy)
}

// FindTypePolicy advances the cursor to the next record of type typ, treating unexpected critical records according
// to the given policy.
//
// The scan runs on a duplicate of the cursor. Skipped records are committed to the cursor as they are passed, the
// header of the found record is not. It fails with a TypeMismatchError for a rejected critical record and with
// ErrUnexpectedEndOfStream if the cursor is exhausted before a match is found.
func FindTypePolicy(cur *Cursor, typ uint64, policy CriticalPolicy) error {
	dup := cur.Clone()
	for dup.Len() > 0 {
		found, err := DecodeVarNum(dup)
		if err != nil {
			return err
		}
		if found == typ {
			return nil
		}
		if policy == CriticalReject && IsCritical(found) {
			return errTypeMismatch("FindType", typ, found)
		}
		length, err := DecodeVarNum(dup)
		if err != nil {
			return err
		}
		if err = dup.Skip(length); err != nil {
			return err
		}
		cur.Commit(dup)
	}
	return errEndOfStream("FindType", 1, 0)
}

// FindRecord is FindType for the type number of the given record.
func FindRecord(cur *Cursor, r Typed) error {
	return FindType(cur, r.TlvType())
}
