package repository

import "encoding/json"

// Amenity and image lists are []string at the domain layer and a
// single JSON text column in the database.  These helpers keep the
// serialization concern out of the individual queries.  A NULL or
// empty column decodes to an empty, non-nil slice so responses always
// render an array.

func encodeStrings(ss []string) ([]byte, error) {
	if ss == nil {
		ss = []string{}
	}
	return json.Marshal(ss)
}

func decodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil || ss == nil {
		return []string{}
	}
	return ss
}
