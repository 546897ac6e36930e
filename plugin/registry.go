package plugin

import "fmt"

// Reducers is a global map of FrameReducer plugins.
var Reducers = map[string]func() FrameReducer{
	"red_green": func() FrameReducer {
		return &RedGreenReducer{}
	},
	"luma": func() FrameReducer {
		return &LumaReducer{}
	},
}

func ReducerLookup(name string) (FrameReducer, error) {
	factory, ok := Reducers[name]
	if !ok {
		return nil, fmt.Errorf("unknown reducer: %s", name)
	}
	return factory(), nil
}
