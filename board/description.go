// This file is part of CortexHAL.
//
// CortexHAL is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// CortexHAL is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CortexHAL.  If not, see <https://www.gnu.org/licenses/>.

package board

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/jetsetilly/cortexhal/curated"
)

//go:embed boards/*.yaml
var builtinFS embed.FS

var builtin Descriptions

// Sentinel patterns for errors returned by the description functions.
const (
	UnknownBoard     = "board: unknown board (%s)"
	DescriptionError = "board: %v"
)

// Description of a development board.
type Description struct {
	Name        string   `yaml:"name"`
	Chip        string   `yaml:"chip"`
	NumIRQs     int      `yaml:"num_irqs"`
	VectorBase  uint32   `yaml:"vector_base"`
	LEDs        []int    `yaml:"leds"`
	Buttons     []int    `yaml:"buttons"`
	Peripherals []string `yaml:"peripherals"`
}

// Has returns true if the board has the named peripheral.
func (desc Description) Has(peripheral string) bool {
	return slices.Contains(desc.Peripherals, strings.ToLower(peripheral))
}

// LEDMask returns the GPIO mask of all the board's LEDs.
func (desc Description) LEDMask() uint32 {
	var mask uint32
	for _, pin := range desc.LEDs {
		mask |= 1 << pin
	}
	return mask
}

// Descriptions is a list of board descriptions.
type Descriptions []Description

// Find the description with the name. Names are not case sensitive.
func (d Descriptions) Find(name string) (Description, error) {
	i := slices.IndexFunc(d, func(desc Description) bool {
		return desc.Name == strings.ToLower(name)
	})
	if i == -1 {
		return Description{}, curated.Errorf(UnknownBoard, name)
	}
	return d[i], nil
}

// Names returns the names of every description in the list.
func (d Descriptions) Names() []string {
	n := make([]string, 0, len(d))
	for _, desc := range d {
		n = append(n, desc.Name)
	}
	return n
}

// Parse a single board description.
func Parse(data []byte) (Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Description{}, curated.Errorf(DescriptionError, err)
	}
	if desc.Name == "" {
		return Description{}, curated.Errorf(DescriptionError, "description has no name")
	}
	desc.Name = strings.ToLower(desc.Name)
	for i := range desc.Peripherals {
		desc.Peripherals[i] = strings.ToLower(desc.Peripherals[i])
	}
	return desc, nil
}

// Load a board description from a file.
func Load(filename string) (Description, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Description{}, curated.Errorf(DescriptionError, err)
	}
	return Parse(data)
}

// Builtin returns the descriptions of all built-in boards.
func Builtin() Descriptions {
	return builtin
}

// Lookup returns the description of a built-in board. If there is no
// built-in board with the name then it is treated as the name of a
// description file.
func Lookup(name string) (Description, error) {
	desc, err := builtin.Find(name)
	if err == nil {
		return desc, nil
	}
	if _, statErr := os.Stat(name); statErr != nil {
		return Description{}, err
	}
	return Load(name)
}

func init() {
	files, err := fs.Glob(builtinFS, "boards/*.yaml")
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		data, err := builtinFS.ReadFile(f)
		if err != nil {
			panic(err)
		}
		desc, err := Parse(data)
		if err != nil {
			panic(err)
		}
		builtin = append(builtin, desc)
	}
}
