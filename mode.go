package spin

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode selects how a drag turns the sphere
type Mode int

const (
	// ModeQuaternion maps each drag sample directly to a rotation
	ModeQuaternion Mode = iota

	// ModeInertialHomegrown turns drags into torque on the homegrown
	// inertial model, the sphere coasts after release
	ModeInertialHomegrown

	// ModeInertialHostPhysics hands drags to the host engine physics body
	// of the anchor as torque impulses
	ModeInertialHostPhysics
)

var modeNames = map[Mode]string{
	ModeQuaternion:          "quaternion",
	ModeInertialHomegrown:   "inertial-homegrown",
	ModeInertialHostPhysics: "inertial-host-physics",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) IsValid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode returns the mode of the given name
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown rotation mode %q", name)
}

func (m Mode) MarshalYAML() (interface{}, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid rotation mode %d", int(m))
	}
	return m.String(), nil
}

func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	mode, err := ParseMode(name)
	if err != nil {
		return err
	}
	*m = mode

	return nil
}
