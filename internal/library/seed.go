package library

import "github.com/mymaps/mymaps/pkg/core"

// SampleMaps returns the maps shown on every start ahead of the user's own.
// They are flagged Sample so stores never write them back.
func SampleMaps() []core.UserMap {
	seeds := []core.UserMap{
		core.NewUserMap("Memories from University",
			core.NewPlace("Branner Hall", "Best dorm at Stanford", 37.426, -122.163),
			core.NewPlace("Gates CS building", "Many long nights in this basement", 37.430, -122.173),
			core.NewPlace("Pinkberry", "First date with my wife", 37.444, -122.170),
		),
		core.NewUserMap("January vacation planning!",
			core.NewPlace("Tokyo", "Overnight layover", 35.67, 139.65),
			core.NewPlace("Ranchi", "Family visit + wedding!", 23.34, 85.31),
			core.NewPlace("Singapore", "Inspired by \"Crazy Rich Asians\"", 1.35, 103.82),
		),
	}
	for i := range seeds {
		seeds[i].Sample = true
	}
	return seeds
}
