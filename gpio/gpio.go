// Package gpio defines the pin capabilities implemented by pin handles on
// expanders and native ports.
package gpio

// InitialState is the level an output takes when initialized.
type InitialState uint8

const (
	Low InitialState = iota
	High
)

func (s InitialState) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// PullUpState selects the internal pull-up of an input.
type PullUpState uint8

const (
	PullUpDisabled PullUpState = iota
	PullUpEnabled
)

// InputPin reports the electrical level of a pin.
type InputPin interface {
	IsLow() (bool, error)
	IsHigh() (bool, error)
}

// OutputPin changes the level of a pin.
type OutputPin interface {
	TransitionToLow() error
	TransitionToHigh() error
	Toggle() error
}

// IOPin is both.
type IOPin interface {
	InputPin
	OutputPin
}

// Set drives p to the given level.
func Set(p OutputPin, high bool) error {
	if high {
		return p.TransitionToHigh()
	}
	return p.TransitionToLow()
}

// ActiveLowInput inverts the logical sense of an input.
type ActiveLowInput struct{ Pin InputPin }

func (p ActiveLowInput) IsLow() (bool, error)  { return p.Pin.IsHigh() }
func (p ActiveLowInput) IsHigh() (bool, error) { return p.Pin.IsLow() }

// ActiveLowOutput inverts the logical sense of an output.
type ActiveLowOutput struct{ Pin OutputPin }

func (p ActiveLowOutput) TransitionToLow() error  { return p.Pin.TransitionToHigh() }
func (p ActiveLowOutput) TransitionToHigh() error { return p.Pin.TransitionToLow() }
func (p ActiveLowOutput) Toggle() error           { return p.Pin.Toggle() }

// ActiveLow inverts both directions of an IO pin.
type ActiveLow struct{ Pin IOPin }

func (p ActiveLow) IsLow() (bool, error)    { return p.Pin.IsHigh() }
func (p ActiveLow) IsHigh() (bool, error)   { return p.Pin.IsLow() }
func (p ActiveLow) TransitionToLow() error  { return p.Pin.TransitionToHigh() }
func (p ActiveLow) TransitionToHigh() error { return p.Pin.TransitionToLow() }
func (p ActiveLow) Toggle() error           { return p.Pin.Toggle() }

var (
	_ InputPin  = ActiveLowInput{}
	_ OutputPin = ActiveLowOutput{}
	_ IOPin     = ActiveLow{}
)
