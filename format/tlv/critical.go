package tlv

// IsCritical returns whether a record of the given type is critical. An unknown or out-of-order non-critical record
// can be safely ignored, while a critical one must lead to an error.
func IsCritical(typ uint64) bool {
	return typ < 32 || typ&1 == 1
}

// RecordCritical returns whether the given record's type is critical.
func RecordCritical(r Typed) bool {
	return IsCritical(r.TlvType())
}
