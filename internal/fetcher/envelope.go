package fetcher

import "marketfetch/internal/document"

// ResultEnvelope returns an Extractor for responses shaped as
//
//	{ "<wrapper>": { "result": [ {...}, ... ], "error": ... } }
//
// The gates run in order and the first failure wins: the document must be
// valid, carry the wrapper key, and the wrapper must hold a non-empty
// "result" array. Only result[0] is returned. The "error" member is not
// inspected.
func ResultEnvelope(wrapper string) Extractor {
	return func(doc document.Document) (document.Document, bool) {
		if !doc.Valid() {
			return document.Document{}, false
		}
		if !doc.Has(wrapper) {
			return document.Document{}, false
		}
		result := doc.Get(wrapper).Get("result")
		if !result.IsArray() || result.Empty() {
			return document.Document{}, false
		}
		return result.At(0), true
	}
}
