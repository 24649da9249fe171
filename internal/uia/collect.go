package uia

// collect materializes handles streamed by produce into a slice. The
// invariant callers rely on: either every produced handle is returned and
// owned by the caller, or produce failed partway, everything already
// emitted has been released, and no partial result escapes.
func collect[H any](release func(H), produce func(emit func(H)) error) ([]H, error) {
	var out []H
	emit := func(h H) { out = append(out, h) }
	if err := produce(emit); err != nil {
		for _, h := range out {
			release(h)
		}
		return nil, err
	}
	return out, nil
}
