// Package control turns viewer input into smooth camera motion.
package control

// Command is a viewer action bound to a key.
type Command int

const (
	None Command = iota
	MoveForward
	MoveBackward
	MoveLeft
	MoveRight
	MoveDown
	MoveUp
	WidenFOV
	NarrowFOV
	TurnLeft
	TurnRight
	LookUp
	LookDown
	ToggleGrid
	ToggleOverlay
	ToggleMatrices
	CyclePrimitive
	Reset
	Quit
)

var commandNames = [...]string{
	None:           "none",
	MoveForward:    "forward",
	MoveBackward:   "backward",
	MoveLeft:       "left",
	MoveRight:      "right",
	MoveDown:       "down",
	MoveUp:         "up",
	WidenFOV:       "widen fov",
	NarrowFOV:      "narrow fov",
	TurnLeft:       "turn left",
	TurnRight:      "turn right",
	LookUp:         "look up",
	LookDown:       "look down",
	ToggleGrid:     "toggle grid",
	ToggleOverlay:  "toggle overlay",
	ToggleMatrices: "toggle matrices",
	CyclePrimitive: "cycle primitive",
	Reset:          "reset",
	Quit:           "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Binding maps key names, as understood by the terminal's key matcher
// ("w", "left", "ctrl+c", ...), to a command.
type Binding struct {
	Keys    []string
	Command Command
	Help    string
}

// DefaultBindings is the viewer key map.
var DefaultBindings = []Binding{
	{[]string{"w"}, MoveForward, "move forward"},
	{[]string{"s"}, MoveBackward, "move back"},
	{[]string{"a"}, MoveLeft, "strafe left"},
	{[]string{"d"}, MoveRight, "strafe right"},
	{[]string{"q"}, MoveDown, "move down"},
	{[]string{"e"}, MoveUp, "move up"},
	{[]string{"z"}, WidenFOV, "widen field of view"},
	{[]string{"x"}, NarrowFOV, "narrow field of view"},
	{[]string{"left"}, TurnLeft, "turn left"},
	{[]string{"right"}, TurnRight, "turn right"},
	{[]string{"up"}, LookUp, "look up"},
	{[]string{"down"}, LookDown, "look down"},
	{[]string{"g"}, ToggleGrid, "toggle floor grid"},
	{[]string{"?", "shift+/"}, ToggleOverlay, "toggle info overlay"},
	{[]string{"m"}, ToggleMatrices, "toggle matrix dump"},
	{[]string{"p"}, CyclePrimitive, "draw as points, lines or triangles"},
	{[]string{"r"}, Reset, "reset camera"},
	{[]string{"escape", "ctrl+c"}, Quit, "quit"},
}

// Match returns the first command in bindings whose keys satisfy matches,
// or None. matches is usually a key event's MatchString method.
func Match(bindings []Binding, matches func(keys ...string) bool) Command {
	for _, b := range bindings {
		if matches(b.Keys...) {
			return b.Command
		}
	}
	return None
}
