// pkg/core/usermap.go
package core

// UserMap is a titled, ordered collection of places
type UserMap struct {
	Title  string  `json:"title"`
	Places []Place `json:"places"`

	// Sample marks maps generated by the seeding policy. They are rebuilt on
	// every start and never written to storage.
	Sample bool `json:"-"`
}

// NewUserMap builds a UserMap owning a copy of places
func NewUserMap(title string, places ...Place) UserMap {
	owned := make([]Place, len(places))
	copy(owned, places)
	return UserMap{Title: title, Places: owned}
}

// Points returns the coordinates of every place, in place order
func (m UserMap) Points() []LatLng {
	points := make([]LatLng, len(m.Places))
	for i, p := range m.Places {
		points[i] = p.LatLng()
	}
	return points
}

// Clone returns a deep copy so callers cannot mutate the original places
func (m UserMap) Clone() UserMap {
	c := m
	if m.Places != nil {
		c.Places = make([]Place, len(m.Places))
		copy(c.Places, m.Places)
	}
	return c
}

// Persisted filters out sample maps, preserving order
func Persisted(maps []UserMap) []UserMap {
	out := make([]UserMap, 0, len(maps))
	for _, m := range maps {
		if m.Sample {
			continue
		}
		out = append(out, m)
	}
	return out
}
