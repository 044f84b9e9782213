package catalog

// Signal is a lamp state: off, on, or dimmed to a warm or cool tone.
type Signal interface {
	isSignal()
	String() string
}

type (
	Off struct{}
	On  struct{}
	Dim struct{ Warm bool }
)

func (Off) isSignal() {}
func (On) isSignal()  {}
func (Dim) isSignal() {}

func (Off) String() string { return "off" }
func (On) String() string  { return "on" }

func (d Dim) String() string {
	if d.Warm {
		return "dim(warm)"
	}
	return "dim(cool)"
}
