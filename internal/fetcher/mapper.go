package fetcher

import "marketfetch/internal/document"

type mapperKey struct {
	req any
	rep any
}

// RegisterMapper registers the conversion from a payload fetched with a
// request of type Q to the representation R. The mapper reports false when
// the payload does not fit R.
func RegisterMapper[Q, R any](p *Provider, m func(document.Document) (R, bool)) {
	p.mappers[mapperKey{req: typeKey[Q]{}, rep: typeKey[R]{}}] = m
}

// mapPayload is the identity when R is document.Document and otherwise
// defers to the mapper registered for (Q, R). A missing mapper is a miss,
// not a failure.
func mapPayload[R, Q any](p *Provider, payload document.Document) (R, bool) {
	var zero R
	if _, ok := any(zero).(document.Document); ok {
		return any(payload).(R), true
	}

	m, ok := p.mappers[mapperKey{req: typeKey[Q]{}, rep: typeKey[R]{}}]
	if !ok {
		return zero, false
	}
	return m.(func(document.Document) (R, bool))(payload)
}
