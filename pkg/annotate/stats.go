package annotate

// Stats accumulates resolution counts for one render pass. Total counts
// every marker emitted; Resolved counts only imported markers, so
// Resolved <= Total holds at all times. A pass owns its accumulator
// exclusively; concurrent passes each carry their own.
type Stats struct {
	TotalFields    int
	ResolvedFields int
}

// Count records one emitted marker.
func (s *Stats) Count(kind Kind) {
	s.TotalFields++
	if kind == KindImported {
		s.ResolvedFields++
	}
}

// Emit counts the marker against s and returns its serialized form,
// so statistics always match the markers actually present in the output.
func (s *Stats) Emit(m Marker) string {
	s.Count(m.Kind)
	return m.HTML()
}

// EmitUnresolved counts the marker toward the total only, regardless of its
// kind. Formatting helpers use it for degraded placeholder displays, which
// keep the imported styling but did not resolve to a usable value.
func (s *Stats) EmitUnresolved(m Marker) string {
	s.TotalFields++
	return m.HTML()
}
